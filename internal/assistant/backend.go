// Package assistant is the gateway to the generative model behind the chat
// assistant and the image generator.
package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGateway wraps every failure of the model service.
	ErrGateway = errors.New("ai gateway failure")
	// ErrNoImage means the model answered but produced no image.
	ErrNoImage = errors.New("no image generated")
	// ErrRateLimited means the local request budget is spent.
	ErrRateLimited = errors.New("too many requests, slow down")
	// ErrEmptyPrompt rejects blank input before it reaches the model.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrNotConfigured is returned by Offline.
	ErrNotConfigured = errors.New("ai gateway not configured, set GEMINI_API_KEY")
)

const (
	FallbackEmpty = "Maaf, Zyren lagi pusing nih, coba lagi nanti ya!"
	FallbackError = "Waduh, ada error nih sistem Zyren. Coba cek koneksi kamu."
)

// Backend is the model service. Implementations return raw errors; Service
// turns them into user-safe results.
type Backend interface {
	Generate(ctx context.Context, past []Message, prompt string) (string, error)
	Stream(ctx context.Context, past []Message, prompt string, onChunk func(string)) error
	// Image returns nil, nil when the model replied without image data.
	Image(ctx context.Context, prompt string, size ImageSize) (*Image, error)
}

// Image is generated image data.
type Image struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// DataURL renders the image for direct use in an <img> tag.
func (i *Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ImageSize is the requested output size.
type ImageSize string

const (
	SizeSmall  ImageSize = "small"
	SizeMedium ImageSize = "medium"
	SizeLarge  ImageSize = "large"
)

// ParseImageSize accepts small/medium/large and the 1K/2K/4K spellings.
// Empty selects small.
func ParseImageSize(v string) (ImageSize, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "small", "1k":
		return SizeSmall, nil
	case "medium", "2k":
		return SizeMedium, nil
	case "large", "4k":
		return SizeLarge, nil
	}
	return "", fmt.Errorf("unknown image size %q (want small, medium or large)", v)
}

// Resolution is the model-side size name.
func (s ImageSize) Resolution() string {
	switch s {
	case SizeMedium:
		return "2K"
	case SizeLarge:
		return "4K"
	}
	return "1K"
}

// Offline stands in for the model service when no API key is configured.
// Every call fails, so chat answers with the fallback text.
type Offline struct{}

func (Offline) Generate(context.Context, []Message, string) (string, error) {
	return "", ErrNotConfigured
}

func (Offline) Stream(context.Context, []Message, string, func(string)) error {
	return ErrNotConfigured
}

func (Offline) Image(context.Context, string, ImageSize) (*Image, error) {
	return nil, ErrNotConfigured
}
