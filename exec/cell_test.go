// SPDX-License-Identifier: GPL-3.0-or-later

package exec

import (
	"context"
	"os/exec"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellPredeterminedNeverExecutes(t *testing.T) {
	cell := NewCell[string]()
	cell.Predetermined("fixed")

	ranCount := int32(0)
	cfg := NewConfig()
	cfg.CommandContext = func(ctx context.Context, inv Invocation) *exec.Cmd {
		atomic.AddInt32(&ranCount, 1)
		return exec.CommandContext(ctx, "/bin/true")
	}
	ex := NewExecutor(cfg)

	value, err := cell.Run(context.Background(), ex, func(*RanCommand) (string, error) {
		return "wrong", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", value)
	assert.Equal(t, int32(0), ranCount)
}

func TestCellNotPrimedReturnsError(t *testing.T) {
	cell := NewCell[string]()
	ex := NewExecutor(nil)

	_, err := cell.Run(context.Background(), ex, func(*RanCommand) (string, error) {
		return "", nil
	})
	assert.ErrorIs(t, err, ErrCellNotPrimed)
}

func TestCellRunsAtMostOnce(t *testing.T) {
	cell := NewCell[int]()
	cell.Primed(Invocation{Shell: "irrelevant"})

	var runs int32
	cfg := NewConfig()
	cfg.CommandContext = func(ctx context.Context, inv Invocation) *exec.Cmd {
		atomic.AddInt32(&runs, 1)
		return exec.CommandContext(ctx, "/bin/true")
	}
	ex := NewExecutor(cfg)

	var wg sync.WaitGroup
	results := make([]int, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cell.Run(context.Background(), ex, func(*RanCommand) (int, error) {
				return 42, nil
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), runs, "the external process must run at most once")
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestCellAttemptedSharesError(t *testing.T) {
	cell := NewCell[int]()
	cell.Primed(Invocation{Shell: "irrelevant"})

	cfg := NewConfig()
	cfg.CommandContext = func(ctx context.Context, inv Invocation) *exec.Cmd {
		return exec.CommandContext(ctx, "/bin/true")
	}
	ex := NewExecutor(cfg)

	_, err1 := cell.Run(context.Background(), ex, func(*RanCommand) (int, error) {
		return 0, assert.AnError
	})
	require.Error(t, err1)

	_, err2 := cell.Run(context.Background(), ex, func(*RanCommand) (int, error) {
		t.Fatal("interpret must not run again once the cell is attempted")
		return 0, nil
	})
	assert.Equal(t, err1, err2)
}
