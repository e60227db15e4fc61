// Package client calls a remote dice reader service.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// ProcessImagePath is the service route that reads a photo.
const ProcessImagePath = "/rest/yahtzee/v1/process_image"

// Client posts photos to a dice reader service.
type Client struct {
	client *http.Client
	uri    string
}

// New creates a client for the service at uri, e.g. "http://reader:5000".
// A nil httpClient uses http.DefaultClient.
func New(uri string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{client: httpClient, uri: strings.TrimRight(uri, "/")}
}

type processImageRequest struct {
	Image string `json:"image"`
}

type processImageResponse struct {
	Dice  []int `json:"dice"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetDiceFromImage sends an encoded photo and returns the face values left
// to right. A die the service could not classify is reported as 0.
func (c *Client) GetDiceFromImage(ctx context.Context, image []byte) ([]int, error) {
	body, err := jsoniter.Marshal(processImageRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uri+ProcessImagePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned: %v", resp.Status)
	}

	var result processImageResponse
	if err := jsoniter.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error.Message != "" {
		return result.Dice, errors.New(result.Error.Message)
	}
	return result.Dice, nil
}
