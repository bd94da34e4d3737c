package ftk_test

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ftk "github.com/AccessDataOps/FTK-API-SDK"
)

func seqOf(items ...int) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func failingSeq(items []int, err error) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
		yield(0, err)
	}
}

func TestCollect(t *testing.T) {
	t.Run("collects all items", func(t *testing.T) {
		items, err := ftk.Collect(seqOf(1, 2, 3))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, items)
	})

	t.Run("empty sequence", func(t *testing.T) {
		items, err := ftk.Collect(seqOf())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("returns partial results with error", func(t *testing.T) {
		wantErr := errors.New("fetch failed")
		items, err := ftk.Collect(failingSeq([]int{1, 2}, wantErr))
		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, []int{1, 2}, items)
	})
}

func TestCollectN(t *testing.T) {
	t.Run("stops at n", func(t *testing.T) {
		items, err := ftk.CollectN(seqOf(1, 2, 3, 4, 5), 3)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, items)
	})

	t.Run("fewer items than n", func(t *testing.T) {
		items, err := ftk.CollectN(seqOf(1, 2), 5)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, items)
	})
}

func TestFirst(t *testing.T) {
	t.Run("returns first item", func(t *testing.T) {
		item, err := ftk.First(seqOf(7, 8, 9))
		require.NoError(t, err)
		assert.Equal(t, 7, item)
	})

	t.Run("empty sequence", func(t *testing.T) {
		_, err := ftk.First(seqOf())
		require.ErrorIs(t, err, ftk.ErrEmptyIterator)
	})
}

func TestTake(t *testing.T) {
	t.Run("limits the sequence", func(t *testing.T) {
		items, err := ftk.Collect(ftk.Take(seqOf(1, 2, 3, 4), 2))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, items)
	})

	t.Run("propagates errors", func(t *testing.T) {
		wantErr := errors.New("fetch failed")
		_, err := ftk.Collect(ftk.Take(failingSeq(nil, wantErr), 2))
		require.ErrorIs(t, err, wantErr)
	})
}
