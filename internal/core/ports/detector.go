package ports

import "go.trai.ch/compdb/internal/core/domain"

// TargetDetector lists targets that already have build output.
//
//go:generate go run go.uber.org/mock/mockgen -source=detector.go -destination=mocks/mock_detector.go -package=mocks
type TargetDetector interface {
	// BuiltTargets lists the sub-directories of the project's bin directory.
	BuiltTargets(root string) (domain.BuildScan, error)
}
