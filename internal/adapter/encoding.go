package adapter

import "encoding/base64"

// Base64 defines an interface for Base64 operations to enable mocking.
// URL-safe encoding is used so values survive inside query parameters,
// where continuation cursors travel.
type Base64 interface {
	Encode(data []byte) string
	Decode(data string) ([]byte, error)
}

type RealBase64 struct{}

func NewBase64() Base64 {
	return &RealBase64{}
}

func (b *RealBase64) Encode(data []byte) string {
	return base64.URLEncoding.EncodeToString(data)
}

func (b *RealBase64) Decode(data string) ([]byte, error) {
	return base64.URLEncoding.DecodeString(data)
}
