package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultPicsumURL = "https://picsum.photos"

// Picsum serves random images of a requested size.
type Picsum struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewPicsum(client *http.Client, baseURL, userAgent string) *Picsum {
	if baseURL == "" {
		baseURL = DefaultPicsumURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Picsum{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
	}
}

func (p *Picsum) FetchRandomImage(ctx context.Context, width, height int) (io.ReadCloser, error) {
	body, err := get(ctx, p.client, fmt.Sprintf("%s/%d/%d", p.baseURL, width, height), p.userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch random image: %w", err)
	}
	return body, nil
}
