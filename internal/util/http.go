package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxBody caps the size of a downloaded body.
const MaxBody = 32 << 20

var ErrStatus = errors.New("unexpected status")

var client = &http.Client{Timeout: 12 * time.Second}

// GetBytes downloads url. A positive timeout bounds the whole request on
// top of ctx; bodies larger than MaxBody are rejected.
func GetBytes(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s from %s", ErrStatus, resp.Status, url)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxBody {
		return nil, fmt.Errorf("%s: body exceeds %d bytes", url, MaxBody)
	}
	return b, nil
}
