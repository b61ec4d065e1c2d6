// Package netx moves attachment blobs against presigned S3 URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 1 << 10

// PutPresigned uploads body to a presigned PUT URL.
func PutPresigned(ctx context.Context, c *http.Client, url string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("upload", resp)
	}
	return nil
}

// GetPresigned downloads from a presigned GET URL into w and returns the
// number of bytes written.
func GetPresigned(ctx context.Context, c *http.Client, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, statusError("download", resp)
	}
	return io.Copy(w, resp.Body)
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%s failed: %s; body: %s", op, resp.Status, string(b))
}
