package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const errorBodyLimit = 512

var ErrUnexpectedStatus = errors.New("unexpected response status")

// ImageClient downloads images by link.
type ImageClient struct {
	client    *http.Client
	userAgent string
}

func NewImageClient(client *http.Client, userAgent string) *ImageClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &ImageClient{
		client:    client,
		userAgent: userAgent,
	}
}

// Download opens the body of link. Anything but 200 OK is an error and the body is released.
func (c *ImageClient) Download(ctx context.Context, link string) (io.ReadCloser, error) {
	return get(ctx, c.client, link, c.userAgent)
}

func get(ctx context.Context, client *http.Client, link, userAgent string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", link, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w %d from %s: %s", ErrUnexpectedStatus, resp.StatusCode, link, string(body))
	}
	return resp.Body, nil
}
