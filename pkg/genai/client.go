// Package genai generates email HTML templates through a hosted generative
// model's REST API.
//
// All calls go through the shared retry policy: transient upstream
// conditions (429, 5xx, network failures) are retried with exponential
// backoff, anything else fails fast with the upstream response body as
// detail. Identical concurrent requests are collapsed into a single
// upstream call with singleflight.
package genai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/intellia-hq/mailroom/pkg/retry"
	"github.com/intellia-hq/mailroom/pkg/sanitizer"
)

// Config holds generative-AI endpoint configuration.
type Config struct {
	APIKey   string `env:"GENAI_API_KEY"`
	Model    string `env:"GENAI_MODEL" envDefault:"gemini-2.0-flash"`
	Endpoint string `env:"GENAI_ENDPOINT" envDefault:"https://generativelanguage.googleapis.com/v1beta/models"`
}

// Configured reports whether an API key is present.
func (c Config) Configured() bool {
	return c.APIKey != ""
}

// Client calls the generative model.
type Client struct {
	config Config
	http   *http.Client
	policy retry.Policy
	group  singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithPolicy overrides the retry policy.
func WithPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// New creates a client for the configured model.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		config: cfg,
		http:   &http.Client{Timeout: 60 * time.Second},
		policy: retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes the template to generate.
type Request struct {
	Content               string // required: what the email should say
	DesignPrompt          string // optional styling guidance
	PlacementInstructions string // optional logo/banner placement guidance
	HasLogo               bool
	HasBanner             bool
}

// generateContent request/response shapes for the Gemini REST API.
type generatePayload struct {
	Contents []payloadContent `json:"contents"`
}

type payloadContent struct {
	Parts []payloadPart `json:"parts"`
}

type payloadPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateTemplate produces a sanitized HTML email template. Concurrent
// calls with identical requests share one upstream round trip.
func (c *Client) GenerateTemplate(ctx context.Context, req Request) (string, error) {
	if req.Content == "" {
		return "", ErrEmptyContent
	}

	html, err, _ := c.group.Do(requestKey(req), func() (any, error) {
		return c.generate(ctx, req)
	})
	if err != nil {
		return "", err
	}
	return html.(string), nil
}

func (c *Client) generate(ctx context.Context, req Request) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent", strings.TrimSuffix(c.config.Endpoint, "/"), c.config.Model)

	payload := generatePayload{
		Contents: []payloadContent{{Parts: []payloadPart{{Text: buildPrompt(req)}}}},
	}
	headers := map[string]string{"x-goog-api-key": c.config.APIKey}

	data, err := retry.PostJSON(ctx, c.http, url, headers, payload, c.policy)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	var resp generateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrGeneration, err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	html := stripCodeFence(resp.Candidates[0].Content.Parts[0].Text)
	if strings.TrimSpace(html) == "" {
		return "", ErrEmptyResponse
	}

	return sanitizer.SanitizeEmailHTML(html), nil
}

// stripCodeFence removes a surrounding markdown code fence, which models
// routinely wrap HTML output in despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // drop the language tag line ("html")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func requestKey(req Request) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(req)
	return hex.EncodeToString(h.Sum(nil))
}
