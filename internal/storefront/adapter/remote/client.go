package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hamburgueria/internal/xpkg/logger"
)

// ContentType is what the spreadsheet endpoint accepts without a CORS preflight.
const ContentType = "text/plain;charset=utf-8"

const maxBody = 1 << 20

// Client talks to the single remote endpoint the catalog and order sink share.
// Reads are GET requests, writes are POSTs carrying an "action" field.
type Client struct {
	url   string
	http  *http.Client
	mylog logger.Logger
}

func NewClient(url string, timeout time.Duration, mylogger logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:   url,
		http:  &http.Client{Timeout: timeout},
		mylog: mylogger,
	}
}

func (c *Client) Get(ctx context.Context, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Post sends payload as JSON. A response body is decoded into out when out is
// non-nil and the body looks like JSON; anything else is ignored.
func (c *Client) Post(ctx context.Context, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", ContentType)

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.mylog.Action("remote_post").Debug("Ignoring non-JSON response", "error", err.Error())
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", req.Method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.mylog.Action("remote_call").Debug("Remote call finished",
		"method", req.Method,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s request: unexpected status %d", req.Method, resp.StatusCode)
	}
	return body, nil
}
