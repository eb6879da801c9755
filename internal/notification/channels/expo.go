// Package channels chứa các kênh gửi thông báo ra bên ngoài.
package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PushMessage là payload gửi tới Expo push gateway cho một token thiết bị
type PushMessage struct {
	To    string                 `json:"to"`
	Sound string                 `json:"sound"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// PushSender gửi một thông báo push tới một token thiết bị.
// Interface để dispatcher test được với fake sender.
type PushSender interface {
	SendPush(ctx context.Context, message PushMessage) error
}

// ExpoPushSender gửi push qua Expo push gateway
type ExpoPushSender struct {
	endpoint string
	client   *http.Client
}

// NewExpoPushSender tạo mới ExpoPushSender trỏ vào endpoint cấu hình
func NewExpoPushSender(endpoint string) *ExpoPushSender {
	return &ExpoPushSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendPush gửi một thông báo push cho một token
func (s *ExpoPushSender) SendPush(ctx context.Context, message PushMessage) error {
	if message.Sound == "" {
		message.Sound = "default"
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("expo push returned status %d", resp.StatusCode)
	}

	return nil
}
