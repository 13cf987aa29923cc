// Package robot dispatches the delivery robot to a table over its HTTP API.
// The call is fire-and-forget: the order state never depends on it.
package robot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Dispatch asks the robot to drive to the given table. Same call the admin
// console used to make directly: GET {base}/move?table=N.
func (c *Client) Dispatch(ctx context.Context, tableNumber string) error {
	u := fmt.Sprintf("%s/move?table=%s", c.baseURL, url.QueryEscape(tableNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("robot returned %s", resp.Status)
	}
	return nil
}
