// Package storage resolves brochure files to URLs that email providers can
// download.
package storage

import (
	"context"
	"fmt"
	"net/url"
)

// PublicLocator serves brochures from a public base URL.
type PublicLocator struct {
	baseURL string
}

func NewPublicLocator(baseURL string) *PublicLocator {
	return &PublicLocator{baseURL: baseURL}
}

func (l *PublicLocator) URL(_ context.Context, fileName string) (string, error) {
	u, err := url.JoinPath(l.baseURL, fileName)
	if err != nil {
		return "", fmt.Errorf("failed to build brochure url: %w", err)
	}
	return u, nil
}
