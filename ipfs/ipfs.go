// -------------------- ipfs/ipfs.go --------------------

//publishes audit records to ipfs so third parties can fetch and re-verify them

package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"PRNG/auditlog"

	shell "github.com/ipfs/go-ipfs-api"
	"go.uber.org/zap"
)

type Client struct {
	Shell *shell.Shell
}

func NewClient(apiEndpoint string) *Client {
	return &Client{Shell: shell.NewShell(apiEndpoint)}
}

// StoreRecord adds the JSON encoding of rec and returns its CID.
func (c *Client) StoreRecord(rec auditlog.Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return c.Shell.Add(bytes.NewReader(data))
}

// FetchRecord reads a record back by CID. The embedded hash is checked
// while decoding.
func (c *Client) FetchRecord(cid string) (auditlog.Record, error) {
	var rec auditlog.Record
	reader, err := c.Shell.Cat(cid)
	if err != nil {
		return rec, err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Archive stores every record received on records until the channel closes
// or ctx is done. Failures are logged and skipped.
func (c *Client) Archive(ctx context.Context, records <-chan auditlog.Record, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			cid, err := c.StoreRecord(rec)
			if err != nil {
				logger.Warn("ipfs archive failed", zap.Uint64("index", rec.Index), zap.Error(err))
				continue
			}
			logger.Info("record archived", zap.Uint64("index", rec.Index), zap.String("cid", cid))
		}
	}
}
