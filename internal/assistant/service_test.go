package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	reply  string
	chunks []string
	image  *Image
	err    error

	gotPast   []Message
	gotPrompt string
	gotSize   ImageSize
}

func (f *fakeBackend) Generate(_ context.Context, past []Message, prompt string) (string, error) {
	f.gotPast, f.gotPrompt = past, prompt
	return f.reply, f.err
}

func (f *fakeBackend) Stream(_ context.Context, past []Message, prompt string, onChunk func(string)) error {
	f.gotPast, f.gotPrompt = past, prompt
	for _, c := range f.chunks {
		onChunk(c)
	}
	return f.err
}

func (f *fakeBackend) Image(_ context.Context, prompt string, size ImageSize) (*Image, error) {
	f.gotPrompt, f.gotSize = prompt, size
	return f.image, f.err
}

func quietService(b Backend, opts Options) *Service {
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(b, opts)
}

func TestReply(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{reply: "Halo!"}
	s := quietService(b, Options{})
	past := []Message{{Role: RoleUser, Text: "hi"}, {Role: RoleModel, Text: "yo"}}

	text, err := s.Reply(context.Background(), past, "apa kabar?")
	require.NoError(t, err)
	assert.Equal(t, "Halo!", text)
	assert.Equal(t, past, b.gotPast)
	assert.Equal(t, "apa kabar?", b.gotPrompt)
}

func TestReplyFallbacks(t *testing.T) {
	t.Parallel()

	s := quietService(&fakeBackend{err: errors.New("connection reset")}, Options{})
	text, err := s.Reply(context.Background(), nil, "hi")
	assert.Equal(t, FallbackError, text)
	assert.ErrorIs(t, err, ErrGateway)
	assert.True(t, IsGatewayError(err))
	assert.NotContains(t, text, "connection reset")

	s = quietService(&fakeBackend{reply: "  "}, Options{})
	text, err = s.Reply(context.Background(), nil, "hi")
	assert.Equal(t, FallbackEmpty, text)
	assert.ErrorIs(t, err, ErrGateway)

	_, err = s.Reply(context.Background(), nil, " ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestReplyRateLimited(t *testing.T) {
	t.Parallel()

	s := quietService(&fakeBackend{reply: "ok"}, Options{RatePerMinute: 1})
	_, err := s.Reply(context.Background(), nil, "one")
	require.NoError(t, err)
	text, err := s.Reply(context.Background(), nil, "two")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, FallbackError, text)
}

func TestReplyTimeoutPropagates(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	b := backendFunc(func(ctx context.Context) (string, error) {
		deadline, _ = ctx.Deadline()
		return "ok", nil
	})
	s := quietService(b, Options{Timeout: time.Minute})
	_, err := s.Reply(context.Background(), nil, "hi")
	require.NoError(t, err)
	assert.False(t, deadline.IsZero())
}

type backendFunc func(ctx context.Context) (string, error)

func (f backendFunc) Generate(ctx context.Context, _ []Message, _ string) (string, error) {
	return f(ctx)
}

func (f backendFunc) Stream(ctx context.Context, _ []Message, _ string, onChunk func(string)) error {
	text, err := f(ctx)
	onChunk(text)
	return err
}

func (f backendFunc) Image(context.Context, string, ImageSize) (*Image, error) { return nil, nil }

func TestStream(t *testing.T) {
	t.Parallel()

	s := quietService(&fakeBackend{chunks: []string{"Ha", "lo", "!"}}, Options{})
	var seen []string
	text, err := s.Stream(context.Background(), nil, "hi", func(c string) { seen = append(seen, c) })
	require.NoError(t, err)
	assert.Equal(t, "Halo!", text)
	assert.Equal(t, []string{"Ha", "lo", "!"}, seen)
}

func TestStreamFailureMidway(t *testing.T) {
	t.Parallel()

	s := quietService(&fakeBackend{chunks: []string{"Ha"}, err: errors.New("stream broke")}, Options{})
	var seen []string
	text, err := s.Stream(context.Background(), nil, "hi", func(c string) { seen = append(seen, c) })
	assert.ErrorIs(t, err, ErrGateway)
	assert.Equal(t, []string{"Ha"}, seen, "the fallback is not streamed")
	assert.Equal(t, FallbackError, text)
}

func TestStreamEmpty(t *testing.T) {
	t.Parallel()

	s := quietService(&fakeBackend{}, Options{})
	var seen []string
	text, err := s.Stream(context.Background(), nil, "hi", func(c string) { seen = append(seen, c) })
	assert.ErrorIs(t, err, ErrGateway)
	assert.Equal(t, FallbackEmpty, text)
	assert.Empty(t, seen)
}

func TestStreamRateLimited(t *testing.T) {
	t.Parallel()

	s := quietService(&fakeBackend{chunks: []string{"ok"}}, Options{RatePerMinute: 1})
	_, err := s.Stream(context.Background(), nil, "one", func(string) {})
	require.NoError(t, err)

	var seen []string
	text, err := s.Stream(context.Background(), nil, "two", func(c string) { seen = append(seen, c) })
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, FallbackError, text)
	assert.Empty(t, seen)
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{image: &Image{MIMEType: "image/png", Data: []byte{0x89, 0x50}}}
	s := quietService(b, Options{})
	img, err := s.GenerateImage(context.Background(), "a cat", SizeLarge)
	require.NoError(t, err)
	assert.Equal(t, SizeLarge, b.gotSize)
	assert.Equal(t, "data:image/png;base64,iVA=", img.DataURL())
}

// A failed call and a call that produced nothing are reported differently.
func TestGenerateImageFailureVsNoImage(t *testing.T) {
	t.Parallel()

	s := quietService(&fakeBackend{err: errors.New("503")}, Options{})
	_, err := s.GenerateImage(context.Background(), "a cat", SizeSmall)
	assert.ErrorIs(t, err, ErrGateway)
	assert.NotErrorIs(t, err, ErrNoImage)

	s = quietService(&fakeBackend{}, Options{})
	_, err = s.GenerateImage(context.Background(), "a cat", SizeSmall)
	assert.ErrorIs(t, err, ErrNoImage)
	assert.NotErrorIs(t, err, ErrGateway)

	_, err = s.GenerateImage(context.Background(), "", SizeSmall)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}
