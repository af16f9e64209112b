package media

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"tradehub/internal/domain"
)

// MaxPayloadBytes caps the decoded attachment size at 10 MiB.
const MaxPayloadBytes = 10 << 20

const maxFileNameLen = 120

var validate = validator.New()

// RawAttachment is the untrusted attachment object exactly as a client
// sent it.
type RawAttachment struct {
	Category  string `json:"category" validate:"required,oneof=image video"`
	MimeType  string `json:"mimeType" validate:"required"`
	Payload   string `json:"payload" validate:"required"`
	FileName  string `json:"fileName"`
	SizeBytes int64  `json:"sizeBytes" validate:"required,gt=0"`
}

var allowedMimes = map[domain.MediaCategory][]string{
	domain.MediaImage: {"image/jpeg", "image/png", "image/gif", "image/webp"},
	domain.MediaVideo: {"video/mp4", "video/webm", "video/ogg"},
}

// Validate checks raw and returns a freshly built attachment containing
// only the whitelisted fields, or nil when any check fails. Callers
// treat nil as "no attachment"; an invalid attachment never aborts the
// surrounding intent.
//
// Checks run in order and short-circuit: required fields, category/mime
// whitelist, data-URL prefix against the declared mime, size bound.
func Validate(raw *RawAttachment) *domain.MediaAttachment {
	if raw == nil {
		return nil
	}
	if err := validate.Struct(raw); err != nil {
		return nil
	}

	category := domain.MediaCategory(raw.Category)
	if !mimetype.EqualsAny(raw.MimeType, allowedMimes[category]...) {
		return nil
	}

	prefix := "data:" + raw.MimeType + ";base64,"
	if !strings.HasPrefix(raw.Payload, prefix) {
		return nil
	}

	if raw.SizeBytes > MaxPayloadBytes {
		return nil
	}
	if decodedLen(raw.Payload[len(prefix):]) > MaxPayloadBytes {
		return nil
	}

	fileName := raw.FileName
	if runes := []rune(fileName); len(runes) > maxFileNameLen {
		fileName = string(runes[:maxFileNameLen])
	}

	return &domain.MediaAttachment{
		Category:  category,
		MimeType:  raw.MimeType,
		Payload:   raw.Payload,
		FileName:  fileName,
		SizeBytes: raw.SizeBytes,
	}
}

// decodedLen is the exact byte length the base64 body decodes to,
// computed without decoding the payload.
func decodedLen(b64 string) int64 {
	if len(b64) == 0 {
		return 0
	}
	var padding int64
	if strings.HasSuffix(b64, "==") {
		padding = 2
	} else if strings.HasSuffix(b64, "=") {
		padding = 1
	}
	return int64(len(b64))/4*3 - padding
}
