// Package chat talks to the external chat subsystem. The core's only
// interaction is the read-only signal sent when a swap completes.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Second},
	}
}

// SetReadOnly tells the chat service to freeze the room attached to the
// swap. Best-effort: errors are logged, never returned, so a completed swap
// transaction is unaffected by chat downtime.
func (c *Client) SetReadOnly(ctx context.Context, swapID uint64) {
	if c.baseURL == "" {
		return
	}

	body, _ := json.Marshal(map[string]uint64{"swapId": swapID})
	url := fmt.Sprintf("%s/internal/swaps/%d/read-only", c.baseURL, swapID)

	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("chat: build read-only request for swap %d: %v", swapID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("chat: read-only signal for swap %d failed: %v", swapID, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("chat: read-only signal for swap %d got status %d", swapID, resp.StatusCode)
	}
}
