// Package submit sends the one-shot completed-hunt report to the remote
// collection endpoint.
package submit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/huntboard/internal/hunt"
)

// DefaultEndpoint receives completed hunt submissions.
const DefaultEndpoint = "https://hunts.luguber.info/api/submissions"

// Payload is the wire format of a hunt submission.
type Payload struct {
	FoundCount int           `json:"foundCount"`
	Items      []PayloadItem `json:"items"`
}

// PayloadItem reports one hunt item. PhotoBase64 is empty when the item
// carries no photo.
type PayloadItem struct {
	Title       string `json:"title"`
	PhotoBase64 string `json:"photoBase64"`
}

// BuildPayload serializes the full state: every item is reported, found or
// not, in seed order.
func BuildPayload(s *hunt.State) Payload {
	p := Payload{
		FoundCount: s.FoundCount(),
		Items:      make([]PayloadItem, 0, len(s.Items)),
	}
	for i := range s.Items {
		item := PayloadItem{Title: s.Items[i].Title}
		if s.Items[i].Photo != nil {
			item.PhotoBase64 = base64.StdEncoding.EncodeToString(s.Items[i].Photo)
		}
		p.Items = append(p.Items, item)
	}
	return p
}

// Submitter posts a hunt submission. A non-nil error means transport-level
// failure; the remote's response body and status code do not fail a
// submission.
type Submitter interface {
	Submit(ctx context.Context, p Payload) error
}

// HTTPSubmitter submits over HTTP with a single POST and no retries.
type HTTPSubmitter struct {
	client *http.Client
	url    string
}

// NewHTTPSubmitter creates a submitter for the given endpoint. A nil client
// falls back to http.DefaultClient (platform-default timeouts, per contract).
func NewHTTPSubmitter(url string, client *http.Client) *HTTPSubmitter {
	if url == "" {
		url = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{client: client, url: url}
}

// Submit issues exactly one POST. The response is drained and discarded;
// non-2xx statuses are logged but count as success (the endpoint is
// fire-and-forget and only transport failures are observable to the user).
func (h *HTTPSubmitter) Submit(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Submission endpoint returned non-2xx status", "status", resp.StatusCode)
	}
	return nil
}
