package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL задаёт базовый адрес Termii API.
	DefaultBaseURL = "https://v3.api.termii.com"
	DefaultChannel = "generic"

	sendPath       = "/api/sms/send"
	defaultTimeout = 45 * time.Second
	tokenMessage   = "Thanks for taking interest in Digital Training Academy, to proceed use this verification code %s"
)

// DeliveryError описывает неудачную отправку SMS.
type DeliveryError struct {
	StatusCode int
	Timeout    bool
	Message    string
	Underlying error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sms: delivery failed (status=%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sms: delivery failed: %s", e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Underlying
}

// Client отправляет SMS через Termii.
// Токен в логи и ошибки не попадает.
type Client struct {
	apiKey     string
	senderID   string
	channel    string
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиента с заданным таймаутом; пустые параметры заменяются значениями по умолчанию.
func NewClient(apiKey, senderID, channel, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if channel == "" {
		channel = DefaultChannel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:     apiKey,
		senderID:   senderID,
		channel:    channel,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	SMS     string `json:"sms"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	APIKey  string `json:"api_key"`
}

// SendToken отправляет OTP на номер. Успехом считается только HTTP 200.
func (c *Client) SendToken(ctx context.Context, phoneNumber, token string) error {
	if c.apiKey == "" {
		return &DeliveryError{Message: "termii api key is not configured"}
	}

	raw, err := json.Marshal(sendRequest{
		To:      phoneNumber,
		From:    c.senderID,
		SMS:     fmt.Sprintf(tokenMessage, token),
		Type:    "plain",
		Channel: c.channel,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return &DeliveryError{Message: "encode request", Underlying: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendPath, bytes.NewReader(raw))
	if err != nil {
		return &DeliveryError{Message: "build request", Underlying: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
		return &DeliveryError{Timeout: timeout, Message: "request failed", Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &DeliveryError{StatusCode: resp.StatusCode, Message: string(b)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
