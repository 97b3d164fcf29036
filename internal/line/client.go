// Package line delivers one-way text messages through the LINE Messaging
// API. Delivery is best effort; no receipt is tracked.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultEndpoint = "https://api.line.me"

type Client struct {
	hc       *http.Client
	token    string
	Endpoint string
}

// New builds a push client. An empty token is a startup-time condition:
// it is logged once here and every Push is skipped, rather than failing
// per call.
func New(channelAccessToken string) *Client {
	if channelAccessToken == "" {
		log.Printf("line: no channel access token configured, push delivery disabled")
	}
	return &Client{
		hc:       &http.Client{Timeout: 10 * time.Second},
		token:    channelAccessToken,
		Endpoint: defaultEndpoint,
	}
}

func (c *Client) Enabled() bool { return c.token != "" }

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Push sends a plain-text message to one user.
func (c *Client) Push(ctx context.Context, userID, text string) error {
	if !c.Enabled() {
		return nil
	}
	payload := struct {
		To       string        `json:"to"`
		Messages []textMessage `json:"messages"`
	}{
		To:       userID,
		Messages: []textMessage{{Type: "text", Text: text}},
	}
	return c.post(ctx, "/v2/bot/message/push", payload)
}

// Reply answers a webhook event using its reply token.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	if !c.Enabled() {
		return nil
	}
	payload := struct {
		ReplyToken string        `json:"replyToken"`
		Messages   []textMessage `json:"messages"`
	}{
		ReplyToken: replyToken,
		Messages:   []textMessage{{Type: "text", Text: text}},
	}
	return c.post(ctx, "/v2/bot/message/reply", payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	jb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(jb))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		// LINE returns a helpful message field on errors.
		var r struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &r)
		if r.Message != "" {
			return fmt.Errorf("line %s failed: %s (status=%d)", path, r.Message, res.StatusCode)
		}
		return fmt.Errorf("line %s failed (status=%d)", path, res.StatusCode)
	}
	return nil
}
