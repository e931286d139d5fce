package protocol

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/aimosphere-network/airo-wingman/models"
)

// Upload stores bytes under contentID via the node's raw exchange_upload RPC
// method. There is no ABI for this call — it is a node-level RPC extension,
// not a contract call — so it goes straight over the adapter's rpc.Client.
func (a *Adapter) Upload(ctx context.Context, contentID models.ContentId, data []byte) error {
	if err := a.rpcClient.CallContext(ctx, nil, "exchange_upload", contentID, data); err != nil {
		return fmt.Errorf("exchange_upload(%s): %w", contentID, err)
	}
	return nil
}

// Download fetches the bytes stored under contentID, returning (nil, false,
// nil) if the node reports no content for that id.
func (a *Adapter) Download(ctx context.Context, contentID models.ContentId) ([]byte, bool, error) {
	var out *[]byte
	if err := a.rpcClient.CallContext(ctx, &out, "exchange_download", contentID); err != nil {
		return nil, false, fmt.Errorf("exchange_download(%s): %w", contentID, err)
	}
	if out == nil {
		return nil, false, nil
	}
	return *out, true, nil
}

// HashUpload computes H = Blake2b-256(data), uploads data under H, and
// returns H. H must match the hash the chain itself uses to identify
// content, since the chain verifies this equality when validating a
// submitted response.
func (a *Adapter) HashUpload(ctx context.Context, data []byte) (models.ContentId, error) {
	h := blake2b.Sum256(data)
	contentID := models.ContentId(h)

	if err := a.Upload(ctx, contentID, data); err != nil {
		return models.ContentId{}, err
	}
	return contentID, nil
}

// RetryDownload attempts Download up to n+1 times, spaced 1 second apart,
// returning as soon as a call succeeds with content present. A call that
// returns (nil, false, nil) — content not yet available — or an error is
// retried; any other outcome returns immediately.
func (a *Adapter) RetryDownload(ctx context.Context, contentID models.ContentId, n int) ([]byte, bool, error) {
	var lastErr error

	for attempt := 0; attempt <= n; attempt++ {
		data, ok, err := a.Download(ctx, contentID)
		if err == nil && ok {
			return data, true, nil
		}
		lastErr = err

		if attempt == n {
			break
		}

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(time.Second):
		}
	}

	return nil, false, lastErr
}
