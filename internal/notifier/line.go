package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const pushEndpoint = "https://api.line.me/v2/bot/message/push"

// LineNotifier pushes messages to a single user via the LINE Messaging API.
// A failed push is logged by the caller and never retried: the next
// scheduled evaluation supersedes this one.
type LineNotifier struct {
	Token   string
	UserID  string
	APIBase string
	Client  *http.Client
}

// NewLineNotifier creates a notifier with optional proxy support.
func NewLineNotifier(token, userID, proxyURL string) *LineNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &LineNotifier{
		Token:   token,
		UserID:  userID,
		APIBase: pushEndpoint,
		Client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
	}
}

type pushMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []pushMessage `json:"messages"`
}

// Send pushes one text message to the configured user.
func (n *LineNotifier) Send(text string) error {
	body, err := json.Marshal(pushRequest{
		To:       n.UserID,
		Messages: []pushMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", n.APIBase, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.Token)

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("LINE API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
