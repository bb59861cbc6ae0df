package signature

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrInvalidDataURL = errors.New("invalid image data url")
	ErrImageTooLarge  = errors.New("signature image too large")
)

const MediaTypePNG = "image/png"

func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a base64 data URL into its media type and payload.
func DecodeDataURL(value string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || !strings.HasPrefix(mediaType, "image/") {
		return "", nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidDataURL
	}
	return mediaType, data, nil
}
