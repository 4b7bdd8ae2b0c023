// Package imagegen turns a text prompt into a displayable image URL.
// Generation never fails: if a request cannot be built, the caller
// gets a placeholder URL instead of an error.
package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// DefaultEndpoint serves an image for a URL-encoded prompt path
	// segment plus width/height/seed query parameters.
	DefaultEndpoint = "https://image.pollinations.ai/prompt"

	// DefaultPlaceholder serves a generic image for /<width>/<height>.
	DefaultPlaceholder = "https://picsum.photos"

	DefaultSize = 1024
)

// Request are the parameters for one generation call. Width and Height
// default to DefaultSize. Callers validate that Prompt is non-empty.
type Request struct {
	Prompt string
	Width  int
	Height int
}

// Result carries the image URL and the request sequence number. When
// requests overlap, the display layer keeps only the result with the
// highest Seq.
type Result struct {
	URL string
	Seq uint64
}

// Generator produces a displayable image URL for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) Result
}

// Client builds generation URLs against a remote endpoint. Each call
// carries a cache-busting seed so repeated prompts are not served a
// cached earlier image.
type Client struct {
	endpoint    string
	placeholder string
	seq         atomic.Uint64
	now         func() time.Time
}

func NewClient(endpoint, placeholder string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Client{
		endpoint:    strings.TrimSuffix(endpoint, "/"),
		placeholder: strings.TrimSuffix(placeholder, "/"),
		now:         time.Now,
	}
}

// Generate returns an image URL for the prompt. On any failure to
// build the request it falls back to a placeholder URL with the same
// dimensions and seed rather than returning an error.
func (c *Client) Generate(_ context.Context, req Request) Result {
	seq := c.seq.Add(1)

	width, height := req.Width, req.Height
	if width <= 0 {
		width = DefaultSize
	}
	if height <= 0 {
		height = DefaultSize
	}

	// The sequence counter keeps the seed distinct even when two
	// calls land in the same millisecond.
	seed := c.now().UnixMilli() + int64(seq)

	imageURL, err := c.buildURL(req.Prompt, width, height, seed)
	if err != nil {
		slog.Warn("Falling back to placeholder image", "prompt", req.Prompt, "err", err)
		imageURL = c.placeholderURL(width, height, seed)
	}
	return Result{URL: imageURL, Seq: seq}
}

func (c *Client) buildURL(prompt string, width, height int, seed int64) (string, error) {
	base, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", fmt.Errorf("invalid endpoint scheme %q", base.Scheme)
	}

	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("seed", strconv.FormatInt(seed, 10))
	return c.endpoint + "/" + url.PathEscape(prompt) + "?" + q.Encode(), nil
}

func (c *Client) placeholderURL(width, height int, seed int64) string {
	return fmt.Sprintf("%s/%d/%d?random=%d", c.placeholder, width, height, seed)
}
