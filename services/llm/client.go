package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sony/gobreaker/v2"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var ErrNotConfigured = errors.New("llm api key not configured")

// Options tunes model generation. Zero values fall back to the model defaults.
type Options struct {
	Model           string
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
	Timeout         time.Duration
}

// Client calls the Gemini generateContent API. A shared circuit breaker
// guards both the buffered and streaming paths so a flapping upstream trips
// callers straight to their fallback tier instead of stacking timeouts.
type Client struct {
	apiKey  string
	baseURL string
	opts    Options
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

func NewClient(apiKey string, opts Options, httpc *http.Client) *Client {
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash-001"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: opts.Timeout}
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:     "gemini",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[llm] breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultBaseURL,
		opts:    opts,
		httpc:   httpc,
		breaker: breaker,
	}
}

// SetBaseURL overrides the API endpoint (used by tests).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

func (c *Client) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) buildRequest(systemInstruction, userText string) generateRequest {
	req := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userText}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     c.opts.Temperature,
			TopP:            c.opts.TopP,
			TopK:            c.opts.TopK,
			MaxOutputTokens: c.opts.MaxOutputTokens,
		},
	}
	if strings.TrimSpace(systemInstruction) != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemInstruction}}}
	}
	return req
}

// doPOST issues the request through the breaker with retry on transport
// errors, 429 and 5xx. The caller owns the response body.
func (c *Client) doPOST(ctx context.Context, endpoint string, payload generateRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return c.breaker.Execute(func() (*http.Response, error) {
		var resp *http.Response
		err := retry.Do(
			func() error {
				req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
				if err != nil {
					return retry.Unrecoverable(err)
				}
				req.Header.Set("Content-Type", "application/json")

				r, err := c.httpc.Do(req)
				if err != nil {
					return err
				}
				if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
					r.Body.Close()
					return fmt.Errorf("gemini request failed: %s", r.Status)
				}
				if r.StatusCode >= 400 {
					r.Body.Close()
					return retry.Unrecoverable(fmt.Errorf("gemini request failed: %s", r.Status))
				}
				resp = r
				return nil
			},
			retry.Attempts(3),
			retry.Delay(300*time.Millisecond),
			retry.DelayType(retry.BackOffDelay),
			retry.Context(ctx),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				log.Printf("[llm] request retry %d: %v", n+1, err)
			}),
		)
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
}

// Complete sends the instruction and user text and returns the buffered
// completion text.
func (c *Client) Complete(ctx context.Context, systemInstruction, userText string) (string, error) {
	if !c.isConfigured() {
		return "", ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.opts.Model, c.apiKey)
	resp, err := c.doPOST(ctx, endpoint, c.buildRequest(systemInstruction, userText))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	text := joinCandidateText(payload)
	if text == "" {
		return "", errors.New("gemini returned no candidates")
	}
	return text, nil
}

// CompleteStream opens a server-sent-events stream and returns a channel of
// raw text fragments in arrival order. The channel is closed when the stream
// ends; a mid-stream error ends the stream early without surfacing. Setup
// failures are returned immediately so the caller can substitute a fallback.
func (c *Client) CompleteStream(ctx context.Context, systemInstruction, userText string) (<-chan string, error) {
	if !c.isConfigured() {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.baseURL, c.opts.Model, c.apiKey)
	resp, err := c.doPOST(ctx, endpoint, c.buildRequest(systemInstruction, userText))
	if err != nil {
		return nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" || data == "[DONE]" {
				continue
			}

			var chunk generateResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				log.Printf("[llm] skipping malformed stream chunk: %v", err)
				continue
			}
			if text := joinCandidateText(chunk); text != "" {
				select {
				case out <- text:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			log.Printf("[llm] stream read ended: %v", err)
		}
	}()

	return out, nil
}

func joinCandidateText(payload generateResponse) string {
	if len(payload.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range payload.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
