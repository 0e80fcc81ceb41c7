package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendAndReset(t *testing.T) {
	t.Parallel()

	h := NewHistory(0)
	h.Append(RoleUser, "hi")
	h.Append(RoleModel, "halo")
	require.Equal(t, 2, h.Len())

	msgs := h.Messages()
	msgs[0].Text = "mutated"
	assert.Equal(t, "hi", h.Messages()[0].Text, "Messages returns a copy")

	h.Reset()
	assert.Zero(t, h.Len())
}

func TestHistoryLimitKeepsWholeExchanges(t *testing.T) {
	t.Parallel()

	h := NewHistory(3)
	h.Append(RoleUser, "u1")
	h.Append(RoleModel, "m1")
	h.Append(RoleUser, "u2")
	h.Append(RoleModel, "m2")

	msgs := h.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, []Message{{RoleUser, "u2"}, {RoleModel, "m2"}}, msgs)
}

func TestParseImageSize(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]ImageSize{
		"":       SizeSmall,
		"small":  SizeSmall,
		"1K":     SizeSmall,
		"Medium": SizeMedium,
		"2k":     SizeMedium,
		"large":  SizeLarge,
		"4K":     SizeLarge,
	} {
		got, err := ParseImageSize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseImageSize("huge")
	assert.Error(t, err)

	assert.Equal(t, "1K", SizeSmall.Resolution())
	assert.Equal(t, "2K", SizeMedium.Resolution())
	assert.Equal(t, "4K", SizeLarge.Resolution())
}

func TestImagePromptCarriesSize(t *testing.T) {
	t.Parallel()

	p := imagePrompt("  a dragon ", SizeMedium)
	assert.Contains(t, p, "a dragon")
	assert.Contains(t, p, "2K")
	assert.Contains(t, p, "1:1")
}

func TestToContentsRoles(t *testing.T) {
	t.Parallel()

	got := toContents([]Message{{RoleUser, "a"}, {RoleModel, "b"}, {Role("system"), "c"}})
	require.Len(t, got, 3)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "user", got[2].Role)
}
