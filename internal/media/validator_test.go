package media

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehub/internal/domain"
)

func pngAttachment(payloadBytes int) *RawAttachment {
	return &RawAttachment{
		Category:  "image",
		MimeType:  "image/png",
		Payload:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, payloadBytes)),
		FileName:  "chart.png",
		SizeBytes: int64(payloadBytes),
	}
}

func TestValidate_Accepts(t *testing.T) {
	got := Validate(pngAttachment(64))
	require.NotNil(t, got)

	assert.Equal(t, domain.MediaImage, got.Category)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, "chart.png", got.FileName)
	assert.Equal(t, int64(64), got.SizeBytes)
	assert.True(t, strings.HasPrefix(got.Payload, "data:image/png;base64,"))
}

func TestValidate_NilInput(t *testing.T) {
	assert.Nil(t, Validate(nil))
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawAttachment)
	}{
		{"no category", func(a *RawAttachment) { a.Category = "" }},
		{"unknown category", func(a *RawAttachment) { a.Category = "audio" }},
		{"no mime type", func(a *RawAttachment) { a.MimeType = "" }},
		{"no payload", func(a *RawAttachment) { a.Payload = "" }},
		{"zero size", func(a *RawAttachment) { a.SizeBytes = 0 }},
		{"negative size", func(a *RawAttachment) { a.SizeBytes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := pngAttachment(64)
			tt.mutate(raw)
			assert.Nil(t, Validate(raw))
		})
	}
}

func TestValidate_MimeWhitelist(t *testing.T) {
	raw := pngAttachment(64)
	raw.MimeType = "image/svg+xml"
	raw.Payload = "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(make([]byte, 64))
	assert.Nil(t, Validate(raw))

	// Valid mime but for the other category.
	raw = pngAttachment(64)
	raw.Category = "video"
	assert.Nil(t, Validate(raw))
}

func TestValidate_PayloadPrefixMustMatchMime(t *testing.T) {
	raw := pngAttachment(64)
	raw.MimeType = "image/jpeg"
	assert.Nil(t, Validate(raw), "declared jpeg with a png data URL")

	raw = pngAttachment(64)
	raw.Payload = base64.StdEncoding.EncodeToString(make([]byte, 64))
	assert.Nil(t, Validate(raw), "bare base64 without a data URL prefix")
}

func TestValidate_SizeBoundary(t *testing.T) {
	assert.NotNil(t, Validate(pngAttachment(MaxPayloadBytes)), "exactly 10 MiB must pass")
	assert.Nil(t, Validate(pngAttachment(MaxPayloadBytes+1)), "10 MiB + 1 byte must fail")
}

func TestValidate_DeclaredSizeOverLimit(t *testing.T) {
	raw := pngAttachment(64)
	raw.SizeBytes = MaxPayloadBytes + 1
	assert.Nil(t, Validate(raw))
}

func TestValidate_FileNameTruncated(t *testing.T) {
	raw := pngAttachment(64)
	raw.FileName = strings.Repeat("a", 300)

	got := Validate(raw)
	require.NotNil(t, got)
	assert.Len(t, got.FileName, 120)
}
