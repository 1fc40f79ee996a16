package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDatasource emits a fixed set of updates, then blocks until cancelled.
type fakeDatasource struct {
	updates []domain.DecodedUpdate
	err     error
}

func (f *fakeDatasource) Run(ctx context.Context, out chan<- domain.DecodedUpdate) error {
	for _, u := range f.updates {
		select {
		case out <- u:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

// recordingProcessor captures processed updates and can fail selected pubkeys.
type recordingProcessor struct {
	mu        sync.Mutex
	processed []domain.DecodedUpdate
	failOn    map[string]error
}

func (r *recordingProcessor) Process(ctx context.Context, update domain.DecodedUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed = append(r.processed, update)
	if err, ok := r.failOn[update.Pubkey]; ok {
		return err
	}
	return nil
}

func (r *recordingProcessor) snapshot() []domain.DecodedUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DecodedUpdate(nil), r.processed...)
}

func decodedUpdate(pubkey string, slot int64) domain.DecodedUpdate {
	return domain.DecodedUpdate{
		Pubkey:   pubkey,
		Slot:     slot,
		Owner:    "owner1",
		Lamports: 100,
		Data:     domain.PoolAccount{},
	}
}

func TestPipeline_ProcessesEveryUpdateInOrder(t *testing.T) {
	source := &fakeDatasource{updates: []domain.DecodedUpdate{
		decodedUpdate("P1", 10),
		decodedUpdate("P2", 11),
		decodedUpdate("P1", 12),
	}}
	processor := &recordingProcessor{}
	p := New(source, processor)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(processor.snapshot()) == 3
	}, time.Second, 5*time.Millisecond)

	got := processor.snapshot()
	assert.Equal(t, int64(10), got[0].Slot)
	assert.Equal(t, int64(11), got[1].Slot)
	assert.Equal(t, int64(12), got[2].Slot)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("pipeline did not stop on cancellation")
	}
}

func TestPipeline_ProcessorFailureDoesNotStopStream(t *testing.T) {
	source := &fakeDatasource{updates: []domain.DecodedUpdate{
		decodedUpdate("bad", 10),
		decodedUpdate("good", 11),
	}}
	processor := &recordingProcessor{
		failOn: map[string]error{"bad": errors.New("insert failed")},
	}
	p := New(source, processor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	// The failing update is consumed and the next one still gets through
	require.Eventually(t, func() bool {
		return len(processor.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	got := processor.snapshot()
	assert.Equal(t, "bad", got[0].Pubkey)
	assert.Equal(t, "good", got[1].Pubkey)
}

func TestPipeline_ReturnsDatasourceError(t *testing.T) {
	sourceErr := errors.New("stream closed")
	source := &fakeDatasource{err: sourceErr}
	processor := &recordingProcessor{}
	p := New(source, processor)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, sourceErr)
	case <-time.After(time.Second):
		t.Fatal("pipeline did not return datasource error")
	}
}

func TestPipeline_StopsOnContextCancel(t *testing.T) {
	source := &fakeDatasource{}
	processor := &recordingProcessor{}
	p := New(source, processor)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("pipeline did not stop on cancellation")
	}
	assert.Empty(t, processor.snapshot())
}
