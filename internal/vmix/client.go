// Package vmix is the one-way command channel to the mixer. Commands travel
// through the local relay endpoint as plain GET requests; the mixer's
// internal state is never read back, so every call is best effort.
package vmix

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mapban/veto-backend/internal/ledger"
)

type Client struct {
	relayURL string
	httpc    *http.Client
	log      *ledger.Log
	zl       *zap.Logger
}

// NewClient points the channel at the relay (not the mixer itself). No
// request timeout: a hung relay hangs that one send, nothing else.
func NewClient(relayURL string, log *ledger.Log, zl *zap.Logger) *Client {
	return &Client{
		relayURL: relayURL,
		httpc:    &http.Client{},
		log:      log,
		zl:       zl,
	}
}

// Send issues one command and reports whether the relay answered 2xx.
// Failures become error log entries, never errors to the caller; each
// command is attempted exactly once.
func (c *Client) Send(ctx context.Context, function string, params map[string]string) bool {
	q := url.Values{}
	q.Set("Function", function)
	details := map[string]string{"Function": function}
	for k, v := range params {
		q.Set(k, v)
		details[k] = v
	}
	c.log.Request("Sending: "+function, details)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.relayURL+"?"+q.Encode(), nil)
	if err != nil {
		c.fail(function, err.Error())
		return false
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.fail(function, err.Error())
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.fail(function, fmt.Sprintf("vMix API Error (%d): %s", resp.StatusCode, body))
		return false
	}

	c.log.Success("Executed: "+function, nil)
	c.zl.Debug("vmix command ok", zap.String("function", function))
	return true
}

func (c *Client) fail(function, detail string) {
	c.log.Error("Failed: "+function, detail)
	c.zl.Warn("vmix command failed", zap.String("function", function), zap.String("detail", detail))
}
