package decompose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// requestTimeout bounds both the token and the completion call.
const requestTimeout = 30 * time.Second

// ChatClient talks to an OpenAI-style chat-completions endpoint guarded by a
// two-step OAuth flow: a Basic-authorized token request first, then Bearer
// calls with the obtained access token. The token is cached until a request
// fails with 401. One client serves concurrent requests, so the cache is
// mutex-guarded.
type ChatClient struct {
	authKey  string
	tokenURL string
	apiURL   string
	scope    string
	model    string

	httpc *http.Client
	log   *slog.Logger

	mu    sync.Mutex
	token string
}

type ChatOption func(*ChatClient)

func WithHTTPClient(c *http.Client) ChatOption {
	return func(cc *ChatClient) { cc.httpc = c }
}

func WithLogger(l *slog.Logger) ChatOption {
	return func(cc *ChatClient) { cc.log = l }
}

func WithModel(model string) ChatOption {
	return func(cc *ChatClient) { cc.model = model }
}

// NewChatClient builds a provider. authKey is the pre-encoded Basic credential
// for the token endpoint.
func NewChatClient(authKey, tokenURL, apiURL, scope string, opts ...ChatOption) *ChatClient {
	c := &ChatClient{
		authKey:  authKey,
		tokenURL: tokenURL,
		apiURL:   apiURL,
		scope:    scope,
		model:    "GigaChat",
		httpc:    &http.Client{Timeout: requestTimeout},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ChatClient) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{"scope": {c.scope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("RqUID", uuid.NewString())
	req.Header.Set("Authorization", "Basic "+c.authKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token request: status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("token decode: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token decode: empty access_token")
	}
	return out.AccessToken, nil
}

const promptTemplate = `Break the task %q into 3-5 concrete practical steps.

FORMAT REQUIREMENTS:
- Each step short and specific
- Start with an action verb (buy, find, make, prepare and so on)
- At most 7-8 words per step
- Steps must be sequential and logical

STRICT FORMAT:
1. Concrete step 1
2. Concrete step 2
3. Concrete step 3
4. Concrete step 4
5. Concrete step 5

Now break down: %q`

// currentToken returns the cached token, fetching one under the lock when the
// cache is empty. Concurrent callers wait on the single fetch.
func (c *ChatClient) currentToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// invalidateToken drops the cached token, but only when it is still the one
// that just failed, so a fresh token fetched by another caller survives.
func (c *ChatClient) invalidateToken(stale string) {
	c.mu.Lock()
	if c.token == stale {
		c.token = ""
	}
	c.mu.Unlock()
}

// Decompose asks the model for numbered steps and parses them. Any transport
// or parse failure is returned so the caller can fall back locally.
func (c *ChatClient) Decompose(ctx context.Context, title string) ([]string, error) {
	token, err := c.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"model":       c.model,
		"messages":    []map[string]string{{"role": "user", "content": fmt.Sprintf(promptTemplate, title, title)}},
		"temperature": 0.3,
		"max_tokens":  300,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("completion encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateToken(token)
		return nil, fmt.Errorf("completion request: token expired")
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("completion request: status %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("completion decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("completion decode: no choices")
	}

	steps := ParseSteps(out.Choices[0].Message.Content)
	if len(steps) == 0 {
		return nil, fmt.Errorf("completion parse: no numbered steps in response")
	}
	c.log.Debug("model decomposition succeeded", "title", title, "steps", len(steps))
	return steps, nil
}

// ParseSteps extracts step texts from a numbered list. Lines without any
// digit are skipped; the "N. ", "N) " and " - " separators are recognized,
// short leftovers discarded. Fewer than two steps counts as a parse failure
// and yields nil.
func ParseSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.ContainsFunc(line, unicode.IsDigit) {
			continue
		}

		cleaned := line
		if _, rest, ok := strings.Cut(line, ". "); ok {
			cleaned = strings.TrimSpace(rest)
		} else if _, rest, ok := strings.Cut(line, ") "); ok {
			cleaned = strings.TrimSpace(rest)
		} else if _, rest, ok := strings.Cut(line, " - "); ok {
			cleaned = strings.TrimSpace(rest)
		} else if head, rest, ok := strings.Cut(line, " "); ok {
			if isOrdinal(head) {
				cleaned = strings.TrimSpace(rest)
			}
		}

		if len(cleaned) > 3 {
			cleaned = strings.TrimSuffix(cleaned, ".")
			steps = append(steps, cleaned)
		}
	}
	if len(steps) < 2 {
		return nil
	}
	return steps
}

// isOrdinal reports whether s is a bare list marker like "1.", "2)" or "3".
func isOrdinal(s string) bool {
	s = strings.TrimRight(s, ".)")
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
