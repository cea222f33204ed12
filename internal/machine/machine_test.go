package machine

import (
	"context"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retroproc/internal/memory"
	"github.com/retroenv/retroproc/internal/processor"
	"github.com/retroenv/retroproc/internal/store"
)

func TestRunAll(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	r := newTestRunner(t, st, []Option{WithMaxSteps(20)}, loopProgram...)

	results, err := r.RunAll(ctx, 4)
	assert.NoError(t, err)
	assert.Len(t, results, 4)

	ids := map[store.ID]struct{}{}
	for _, result := range results {
		assert.NoError(t, result.Err)
		assert.Equal(t, StopStepLimit, result.Reason)
		assert.Equal(t, 20, result.Steps)
		assert.Equal(t, programStart, result.Snapshot.ProgramCounter)
		ids[result.ID] = struct{}{}

		saved, err := st.Load(ctx, result.ID)
		assert.NoError(t, err)
		assert.Equal(t, result.Snapshot, saved)
	}
	assert.Len(t, ids, 4)
}

func TestRunAllSharedMemory(t *testing.T) {
	st := store.NewMemoryStore()
	mem := newTestMemory(t,
		0xA9, 0x5A, // lda #$5a
		0x85, 0x10, // sta $10
		0xFF,
	)
	r := New(log.NewTestLogger(t), mem, st, st)

	results, err := r.RunAll(context.Background(), 3)
	assert.True(t, errors.Is(err, processor.ErrUnknownOpcode))
	for _, result := range results {
		assert.Equal(t, StopError, result.Reason)
		assert.Equal(t, 2, result.Steps)
	}

	value, err := mem.Read8(0x10)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x5A), value)
}

func TestRunAllInvalidCount(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestRunner(t, st, nil)

	_, err := r.RunAll(context.Background(), 0)
	assert.ErrorContains(t, err, "invalid processor count 0")
}

func TestRunAllBootFailure(t *testing.T) {
	st := store.NewMemoryStore()
	r := New(log.NewTestLogger(t), newTestMemory(t, loopProgram...), st, failingAllocator{}, WithMaxSteps(1))

	results, err := r.RunAll(context.Background(), 2)
	assert.True(t, errors.Is(err, errStoreDown))
	assert.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, StopError, result.Reason)
		assert.False(t, result.HasID)
	}
}

func TestRunAllResetFailure(t *testing.T) {
	st := store.NewMemoryStore()
	r := New(log.NewTestLogger(t), faultingMemory{}, st, store.NewCounter(5))

	results, err := r.RunAll(context.Background(), 1)
	assert.True(t, errors.Is(err, memory.ErrOutOfRange))
	assert.Len(t, results, 1)
	assert.True(t, results[0].HasID)
	assert.Equal(t, store.ID(5), results[0].ID)
	assert.Equal(t, StopError, results[0].Reason)
}

type faultingMemory struct{}

func (faultingMemory) Read8(address uint16) (byte, error) {
	return 0, &memory.Fault{Op: "read", Address: address, Err: memory.ErrOutOfRange}
}

func (faultingMemory) Write8(uint16, byte) error {
	return nil
}
