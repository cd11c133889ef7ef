// Package bot is the MAX messenger front end: a long-poll client, command
// handlers and inline keyboards over the same engine the REST API uses.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a minimal MAX Bot API client. The platform authenticates with an
// access_token query parameter on every call.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		// Longer than the long-poll timeout so the server side closes first.
		httpc: &http.Client{Timeout: 50 * time.Second},
	}
}

// Update is a single long-poll event. The platform multiplexes event kinds
// through update_type; only messages and button callbacks matter here.
type Update struct {
	UpdateType string    `json:"update_type"`
	Message    *Message  `json:"message"`
	Callback   *Callback `json:"callback"`
}

type Message struct {
	Sender    User        `json:"sender"`
	Recipient Recipient   `json:"recipient"`
	Body      MessageBody `json:"body"`
}

type MessageBody struct {
	Text string `json:"text"`
}

type User struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type Recipient struct {
	ChatID int64 `json:"chat_id"`
}

type Callback struct {
	CallbackID string `json:"callback_id"`
	Payload    string `json:"payload"`
	User       User   `json:"user"`
}

const (
	UpdateMessageCreated  = "message_created"
	UpdateMessageCallback = "message_callback"
	UpdateBotStarted      = "bot_started"
)

// Poll long-polls for updates after marker. Returns the events and the next
// marker to resume from.
func (c *Client) Poll(ctx context.Context, marker int64) ([]Update, int64, error) {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("timeout", "30")
	if marker > 0 {
		q.Set("marker", strconv.FormatInt(marker, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/updates?"+q.Encode(), nil)
	if err != nil {
		return nil, marker, fmt.Errorf("poll request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, marker, fmt.Errorf("poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, marker, fmt.Errorf("poll: status %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		Updates []Update `json:"updates"`
		Marker  int64    `json:"marker"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, marker, fmt.Errorf("poll decode: %w", err)
	}
	return out.Updates, out.Marker, nil
}

type outgoingMessage struct {
	Text        string       `json:"text"`
	Format      string       `json:"format,omitempty"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type attachment struct {
	Type    string   `json:"type"`
	Payload keyboard `json:"payload"`
}

func messageBody(text string, kb *Keyboard) outgoingMessage {
	msg := outgoingMessage{Text: text, Format: "markdown"}
	if kb != nil {
		msg.Attachments = []attachment{{Type: "inline_keyboard", Payload: keyboard{Buttons: kb.rows}}}
	}
	return msg
}

// SendMessage posts a markdown message, optionally with an inline keyboard,
// to the chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, kb *Keyboard) error {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("chat_id", strconv.FormatInt(chatID, 10))
	return c.post(ctx, "/messages?"+q.Encode(), messageBody(text, kb))
}

// AnswerCallback acknowledges a button press, replacing the source message.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string, text string, kb *Keyboard) error {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("callback_id", callbackID)
	body := struct {
		Message outgoingMessage `json:"message"`
	}{Message: messageBody(text, kb)}
	return c.post(ctx, "/answers?"+q.Encode(), body)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("bot encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("bot request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("bot post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bot post: status %d: %s", resp.StatusCode, raw)
	}
	return nil
}
