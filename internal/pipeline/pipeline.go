package pipeline

import (
	"context"
	"log/slog"

	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/pratikbuilds/account-socket/internal/metrics"
	"github.com/pratikbuilds/account-socket/internal/platform/correlation"
)

// updateBuffer absorbs short ingestion stalls without backpressuring the
// datasource read loop.
const updateBuffer = 64

// Pipeline drives the ingestion orchestrator: it consumes updates from the
// datasource one at a time and hands each to the processor. A processor
// failure affects that update only.
type Pipeline struct {
	source    Datasource
	processor Processor
}

func New(source Datasource, processor Processor) *Pipeline {
	return &Pipeline{source: source, processor: processor}
}

// Run blocks until ctx is cancelled or the datasource stops.
func (p *Pipeline) Run(ctx context.Context) error {
	out := make(chan domain.DecodedUpdate, updateBuffer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.source.Run(ctx, out)
	}()

	for {
		select {
		case update := <-out:
			metrics.PipelineUpdatesReceived.Inc()
			updateCtx := correlation.WithID(ctx, correlation.NewID())
			if err := p.processor.Process(updateCtx, update); err != nil {
				// Already logged with context by the processor; the next
				// update must not be affected.
				slog.DebugContext(updateCtx, "Update processing failed", "pubkey", update.Pubkey, "slot", update.Slot)
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
