// Package utils chứa các helper cho API test: HTTP client có sẵn token.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient bọc http.Client với base URL và bearer token
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient tạo client với timeout tính bằng giây
func NewHTTPClient(baseURL string, timeoutSeconds int) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

// SetToken đặt bearer token cho các request tiếp theo
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do gửi request với body JSON (nil nếu không có body)
func (c *HTTPClient) do(method string, path string, payload interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("không marshal được payload: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, body, nil
}

// GET gửi request GET
func (c *HTTPClient) GET(path string) (*http.Response, []byte, error) {
	return c.do(http.MethodGet, path, nil)
}

// POST gửi request POST với body JSON
func (c *HTTPClient) POST(path string, payload interface{}) (*http.Response, []byte, error) {
	return c.do(http.MethodPost, path, payload)
}

// PUT gửi request PUT với body JSON
func (c *HTTPClient) PUT(path string, payload interface{}) (*http.Response, []byte, error) {
	return c.do(http.MethodPut, path, payload)
}

// DELETE gửi request DELETE
func (c *HTTPClient) DELETE(path string) (*http.Response, []byte, error) {
	return c.do(http.MethodDelete, path, nil)
}
