package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
)

const (
	broadcastPath = "/v2/bot/message/broadcast"
	pushPath      = "/v2/bot/message/push"

	// maxTextRunes is the Messaging API limit for one text message.
	maxTextRunes = 5000
)

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendRequest struct {
	To       string        `json:"to,omitempty"`
	Messages []textMessage `json:"messages"`
}

type apiError struct {
	Message string `json:"message"`
}

// Client sends text messages through the LINE Messaging API. Without a user
// id every follower of the channel receives the message.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	userID  string
}

func New(baseURL, token, userID string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	cb := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "line",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &Client{http: c, breaker: cb, userID: userID}
}

func (c *Client) Send(ctx context.Context, text string) error {
	path := broadcastPath
	body := sendRequest{Messages: []textMessage{{Type: "text", Text: truncate(text, maxTextRunes)}}}
	if c.userID != "" {
		path = pushPath
		body.To = c.userID
	}

	resp, err := c.breaker.Execute(func() (*resty.Response, error) {
		r, err := c.http.R().
			SetContext(ctx).
			SetBody(body).
			SetError(&apiError{}).
			Post(path)
		if err != nil {
			return nil, err
		}
		if r.StatusCode() >= 500 || r.StatusCode() == http.StatusTooManyRequests {
			return r, fmt.Errorf("line api returned %d", r.StatusCode())
		}
		return r, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("line: circuit open: %w", err)
	}
	if err != nil {
		return fmt.Errorf("line send: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if e, ok := resp.Error().(*apiError); ok && e.Message != "" {
			msg = e.Message
		}
		return fmt.Errorf("line api %d: %s", resp.StatusCode(), msg)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
