package archive_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griefbot/memeforge/internal/archive"
	"github.com/griefbot/memeforge/pkg/api"
)

func newTestArchive(t *testing.T) *archive.BlobArchive {
	t.Helper()
	a, err := archive.New(context.Background(), "mem://", "runs/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func successResult() *api.Result {
	return &api.Result{
		RunID:    api.NewRunID(),
		Pipeline: "meme-generation",
		Status:   api.RunSuccess,
		Output: api.Args{
			"imageUrl": "https://i.imgflip.com/abc.jpg",
			"pageUrl":  "https://imgflip.com/i/abc",
		},
		Elapsed: 250 * time.Millisecond,
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	res := successResult()
	require.NoError(t, a.Put(ctx, res))

	got, err := a.Get(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, got.RunID)
	assert.Equal(t, res.Status, got.Status)
	assert.Equal(t,
		"https://i.imgflip.com/abc.jpg",
		got.Output.GetString("imageUrl", ""))
}

func TestArchiveFailureResult(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	res := &api.Result{
		RunID:      api.NewRunID(),
		Pipeline:   "meme-generation",
		Status:     api.RunFailure,
		FailedStep: "find-base-meme",
		Reason:     api.ReasonExecution,
		Detail:     "network timeout",
	}
	require.NoError(t, a.Put(ctx, res))

	got, err := a.Get(ctx, res.RunID)
	require.NoError(t, err)
	assert.False(t, got.IsSuccess())
	assert.Equal(t, api.Name("find-base-meme"), got.FailedStep)
	assert.Equal(t, api.ReasonExecution, got.Reason)
	assert.Equal(t, "network timeout", got.Detail)
}

func TestArchiveGetUnknownRun(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	_, err := a.Get(ctx, api.NewRunID())
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestArchiveDelete(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	res := successResult()
	require.NoError(t, a.Put(ctx, res))
	require.NoError(t, a.Delete(ctx, res.RunID))

	_, err := a.Get(ctx, res.RunID)
	assert.ErrorIs(t, err, archive.ErrNotFound)

	assert.NoError(t, a.Delete(ctx, res.RunID),
		"deleting an absent run is not an error")
}

func TestArchiveBadBucketURL(t *testing.T) {
	_, err := archive.New(context.Background(), "bogus://nowhere", "runs/")
	assert.Error(t, err)
}
