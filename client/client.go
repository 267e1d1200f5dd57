// Package client is the Go consumer of the Pawlink API: an HTTP client for
// the match/chat endpoints plus a websocket relay, together satisfying the
// dependency interfaces of chatsession. A mobile bridge embeds these to run
// a chat screen against a live server.
package client

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

	"pawlink_server/models"
	"pawlink_server/services"
)

// Client talks to the Pawlink HTTP API on behalf of one user
type Client struct {
	BaseURL string
	UserID  string
	HTTP    *http.Client
}

// New creates a Client for the given server and user
func New(baseURL, userID string) *Client {
	return &Client{
		BaseURL: baseURL,
		UserID:  userID,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthorizeChat resolves a match through the server-side access guard
func (c *Client) AuthorizeChat(ctx context.Context, matchID, userID string) (models.MatchWithPets, error) {
	var match models.MatchWithPets
	endpoint := fmt.Sprintf("%s/api/match/%s?userId=%s", c.BaseURL, url.PathEscape(matchID), url.QueryEscape(userID))
	if err := c.getJSON(ctx, endpoint, &match); err != nil {
		return models.MatchWithPets{}, err
	}
	return match, nil
}

// GetMessagesByMatchID fetches the message history in rendering order
func (c *Client) GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error) {
	var messages []models.Message
	endpoint := fmt.Sprintf("%s/api/chat/messages?matchId=%s&userId=%s&limit=%s",
		c.BaseURL, url.QueryEscape(matchID), url.QueryEscape(c.UserID), strconv.Itoa(limit))
	if err := c.getJSON(ctx, endpoint, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage persists an outgoing message and returns the stored record
func (c *Client) SendMessage(ctx context.Context, matchID, senderID, content string) (models.Message, error) {
	payload := map[string]string{
		"matchId":  matchID,
		"senderId": senderID,
		"content":  content,
	}
	var message models.Message
	if err := c.postJSON(ctx, c.BaseURL+"/api/chat/message", payload, &message); err != nil {
		return models.Message{}, err
	}
	return message, nil
}

// MarkMessageRead issues a read receipt. The server endpoint is bulk per
// match and idempotent, so marking one message marks everything the reader
// has received.
func (c *Client) MarkMessageRead(ctx context.Context, msg models.Message, readerID string) error {
	payload := map[string]string{
		"matchId": msg.MatchID,
		"userId":  readerID,
	}
	return c.postJSON(ctx, c.BaseURL+"/api/chat/messages/mark-as-read", payload, nil)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes a request and maps the server's guard statuses back onto the
// shared error taxonomy, so client-side callers can errors.Is the same
// sentinels the services return.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.ErrMatchNotFound
	case resp.StatusCode == http.StatusForbidden:
		return services.ErrNotMatched
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request to %s failed with status %d: %s", req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
