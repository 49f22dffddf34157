// Package generator builds compilation databases from a scanned source tree.
package generator

import (
	"context"
	"fmt"

	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/zerr"
)

// Span names of the generation phases.
const (
	PhaseScan     = "scan"
	PhaseIncludes = "includes"
	PhaseBuild    = "build"
)

// Request describes one generation run.
type Request struct {
	Root     string
	BuildDir string
	Target   domain.Target
}

// Generator runs the scan, include resolution and command building phases.
type Generator struct {
	scanner  ports.SourceScanner
	includes ports.IncludeResolver
	builder  *Builder
	logger   ports.Logger
	tracer   ports.Tracer
}

// New creates a new Generator with the given dependencies.
func New(
	scanner ports.SourceScanner,
	includes ports.IncludeResolver,
	builder *Builder,
	logger ports.Logger,
	tracer ports.Tracer,
) *Generator {
	return &Generator{
		scanner:  scanner,
		includes: includes,
		builder:  builder,
		logger:   logger,
		tracer:   tracer,
	}
}

// Generate returns one compile command per source file found below the root.
// Files that fail are reported as warnings and left out. The result is never nil.
func (g *Generator) Generate(ctx context.Context, req Request) ([]domain.CompileCommand, error) {
	g.logger.Info("Scanning for source files...")
	files, err := g.scan(ctx, req.Root)
	if err != nil {
		return nil, err
	}
	g.logger.Info(fmt.Sprintf("Found %d source files", len(files)))

	includes := g.resolveIncludes(ctx, req)

	return g.build(ctx, req, files, includes)
}

func (g *Generator) scan(ctx context.Context, root string) ([]string, error) {
	ctx, span := g.tracer.Start(ctx, PhaseScan)
	defer span.End()

	files, err := g.scanner.Scan(ctx, root)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "root", root)
	}
	span.SetAttribute("files", len(files))
	return files, nil
}

// resolveIncludes probes the include candidates once for the whole run.
func (g *Generator) resolveIncludes(ctx context.Context, req Request) []string {
	_, span := g.tracer.Start(ctx, PhaseIncludes)
	defer span.End()

	flags := g.includes.Resolve(req.Root, req.BuildDir, req.Target)
	span.SetAttribute("flags", len(flags))
	return flags
}

func (g *Generator) build(
	ctx context.Context,
	req Request,
	files, includes []string,
) ([]domain.CompileCommand, error) {
	_, span := g.tracer.Start(ctx, PhaseBuild)
	defer span.End()

	commands := make([]domain.CompileCommand, 0, len(files))
	skipped := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return nil, err
		}

		cmd, err := g.builder.Build(req.Root, file, req.Target, includes)
		if err != nil {
			skipped++
			g.logger.Warn(fmt.Sprintf("Failed to process %s: %v", file, err))
			continue
		}
		commands = append(commands, cmd)
	}

	span.SetAttribute("entries", len(commands))
	span.SetAttribute("skipped", skipped)
	return commands, nil
}
