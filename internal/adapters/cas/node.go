package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bud/internal/core/ports"
)

// NodeID is the unique identifier for the output store Graft node.
const NodeID graft.ID = "adapter.output_store"

func init() {
	graft.Register(graft.Node[ports.OutputStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.OutputStore, error) {
			return NewStore(), nil
		},
	})
}
