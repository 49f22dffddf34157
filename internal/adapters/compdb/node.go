package compdb

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/compdb/internal/core/ports"
)

// NodeID is the unique identifier for the database writer Graft node.
const NodeID graft.ID = "adapter.compdb_writer"

func init() {
	graft.Register(graft.Node[ports.DatabaseWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DatabaseWriter, error) {
			return NewWriter(), nil
		},
	})
}
