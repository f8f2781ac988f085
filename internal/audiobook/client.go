package audiobook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/plotloom/plotloom/internal/config"
)

// Client talks to the TTS HTTP service.
type Client struct {
	baseURL string
	voice   string
	rate    string
	pitch   string
	client  *http.Client
}

func NewClient(cfg config.TTS) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		voice:   cfg.Voice,
		rate:    cfg.Rate,
		pitch:   cfg.Pitch,
		client:  &http.Client{Timeout: timeout},
	}
}

// Synthesize renders one chunk of text to audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("voice", c.voice)
	q.Set("rate", c.rate)
	q.Set("pitch", c.pitch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}
