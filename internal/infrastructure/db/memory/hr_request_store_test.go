package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protorh/protorh-api/internal/core/domain"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestHRRequestStore_Create(t *testing.T) {
	s := NewHRRequestStore()

	req, err := s.Create(context.Background(), 7, "need a new badge", day)
	require.NoError(t, err)

	assert.Equal(t, int64(1), req.ID)
	assert.True(t, req.Visibility)
	assert.False(t, req.Closed)
	require.Len(t, req.History, 1)
	assert.Equal(t, domain.HistoryEntry{Author: 7, Content: "need a new badge", At: day}, req.History[0])
}

func TestHRRequestStore_AppendEdit_KeepsPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewHRRequestStore()
	req, err := s.Create(ctx, 1, "v0", day)
	require.NoError(t, err)

	const n = 5
	var snapshots [][]domain.HistoryEntry
	for i := 1; i <= n; i++ {
		got, err := s.AppendEdit(ctx, req.ID, fmt.Sprintf("v%d", i), domain.AuthorID(req.ID), day.AddDate(0, 0, i))
		require.NoError(t, err)
		snapshots = append(snapshots, got.History)
	}

	final, err := s.Get(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, final.History, 1+n)
	assert.Equal(t, "v5", final.Content)
	assert.Equal(t, day.AddDate(0, 0, n), final.LastActionAt)

	for i, snap := range snapshots {
		assert.Equal(t, snap, final.History[:len(snap)], "edit %d rewrote earlier entries", i+1)
	}
}

func TestHRRequestStore_AppendEdit_ConcurrentEditsSurvive(t *testing.T) {
	ctx := context.Background()
	s := NewHRRequestStore()
	req, err := s.Create(ctx, 1, "start", day)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, content := range []string{"hello", "world"} {
		wg.Add(1)
		go func(c string) {
			defer wg.Done()
			_, err := s.AppendEdit(ctx, req.ID, c, domain.AuthorID(req.ID), day)
			assert.NoError(t, err)
		}(content)
	}
	wg.Wait()

	final, err := s.Get(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, final.History, 3)

	got := []string{final.History[1].Content, final.History[2].Content}
	assert.ElementsMatch(t, []string{"hello", "world"}, got)
	assert.Equal(t, final.History[2].Content, final.Content)
}

func TestHRRequestStore_AppendEdit_Errors(t *testing.T) {
	ctx := context.Background()
	s := NewHRRequestStore()

	_, err := s.AppendEdit(ctx, 99, "x", 99, day)
	assert.True(t, errors.Is(err, domain.ErrHRRequestNotFound))

	req, err := s.Create(ctx, 1, "start", day)
	require.NoError(t, err)
	_, err = s.SoftClose(ctx, req.ID, day)
	require.NoError(t, err)

	_, err = s.AppendEdit(ctx, req.ID, "late", domain.AuthorID(req.ID), day)
	assert.True(t, errors.Is(err, domain.ErrHRRequestClosed))

	final, err := s.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, final.History, 1)
	assert.Equal(t, "start", final.Content)
}

func TestHRRequestStore_SoftClose_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := NewHRRequestStore()
	req, err := s.Create(ctx, 1, "start", day)
	require.NoError(t, err)

	first, err := s.SoftClose(ctx, req.ID, day)
	require.NoError(t, err)
	assert.True(t, first.Closed)
	assert.False(t, first.Visibility)
	require.NotNil(t, first.DeletedAt)
	assert.Equal(t, day, *first.DeletedAt)
	assert.Equal(t, "start", first.Content)
	assert.Len(t, first.History, 1)

	later := day.AddDate(0, 0, 3)
	second, err := s.SoftClose(ctx, req.ID, later)
	require.NoError(t, err)
	assert.Equal(t, day, *second.DeletedAt)
	assert.Equal(t, later, second.LastActionAt)

	_, err = s.SoftClose(ctx, 42, day)
	assert.True(t, errors.Is(err, domain.ErrHRRequestNotFound))
}

func TestHRRequestStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewHRRequestStore()
	req, err := s.Create(ctx, 1, "start", day)
	require.NoError(t, err)

	req.History[0].Content = "tampered"

	stored, err := s.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "start", stored.History[0].Content)
}

func TestHRRequestStore_ListOrderedByID(t *testing.T) {
	ctx := context.Background()
	s := NewHRRequestStore()
	for i := 0; i < 4; i++ {
		_, err := s.Create(ctx, int64(i+1), "c", day)
		require.NoError(t, err)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, req := range all {
		assert.Equal(t, int64(i+1), req.ID)
	}
}
