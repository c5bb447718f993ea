package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"growthai/internal/llm"
)

// Client talks to any OpenAI-compatible endpoint (chat completions and
// embeddings). A zero base URL means the client is unconfigured and every
// call fails fast.
type Client struct {
	baseURL   string
	apiKey    string
	chatModel string
	embModel  string
	http      *http.Client
}

type Options struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		chatModel: opts.ChatModel,
		embModel:  opts.EmbeddingModel,
		http:      &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a base URL was provided.
func (c *Client) Configured() bool { return c != nil && c.baseURL != "" }

// Chat implements llm.ChatProvider with a non-streaming completion.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("openai: no base URL configured")
	}
	body := map[string]any{
		"model":       c.chatModel,
		"messages":    messages,
		"temperature": temperature,
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "/chat/completions", body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}

// Embeddings implements llm.Embedder. Order of vectors matches inputs.
func (c *Client) Embeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("openai: no base URL configured")
	}
	body := map[string]any{
		"model": c.embModel,
		"input": inputs,
	}
	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/embeddings", body, &out); err != nil {
		return nil, err
	}
	vecs := make([][]float32, 0, len(out.Data))
	for _, d := range out.Data {
		vecs = append(vecs, d.Embedding)
	}
	return vecs, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, path, b)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openai %s http %d: %s", path, resp.StatusCode, string(data))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// do retries on 429 and 5xx with a short linear backoff.
func (c *Client) do(ctx context.Context, path string, body []byte) (*http.Response, error) {
	backoff := 200 * time.Millisecond
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if attempt >= 2 || (resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode/100 != 5) {
			return resp, nil
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff + time.Duration(attempt)*100*time.Millisecond):
		}
	}
}
