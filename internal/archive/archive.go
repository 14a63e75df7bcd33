// Package archive persists completed run results as JSON blobs, keyed by
// run ID. It is an after-the-fact artifact log for retrieval by callers;
// the engine never reads archived state back into a run.
package archive

import (
	"context"
	"encoding/json"
	"errors"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/griefbot/memeforge/pkg/api"
)

// BlobArchive stores run results using gocloud.dev/blob, supporting S3,
// GCS, Azure Blob Storage, local files, and in-memory buckets
type BlobArchive struct {
	bucket *blob.Bucket
	prefix string
}

var ErrNotFound = errors.New("run not archived")

// New opens the bucket at bucketURL and returns an archive writing under
// the given key prefix
func New(ctx context.Context, bucketURL, prefix string) (*BlobArchive, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &BlobArchive{bucket: bucket, prefix: prefix}, nil
}

// Put stores a run result keyed by its run ID
func (a *BlobArchive) Put(ctx context.Context, res *api.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return a.bucket.WriteAll(ctx, a.keyFor(res.RunID), data, nil)
}

// Get retrieves an archived run result, returning ErrNotFound when the run
// was never archived
func (a *BlobArchive) Get(
	ctx context.Context, runID api.RunID,
) (*api.Result, error) {
	data, err := a.bucket.ReadAll(ctx, a.keyFor(runID))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var res api.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete removes an archived run result. Deleting an absent run is not an
// error
func (a *BlobArchive) Delete(ctx context.Context, runID api.RunID) error {
	err := a.bucket.Delete(ctx, a.keyFor(runID))
	if err != nil && gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	return err
}

func (a *BlobArchive) Close() error {
	return a.bucket.Close()
}

func (a *BlobArchive) keyFor(runID api.RunID) string {
	return a.prefix + string(runID) + ".json"
}
