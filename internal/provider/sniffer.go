package provider

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MimeSniffer detects content types from magic numbers.
type MimeSniffer struct{}

func NewMimeSniffer() MimeSniffer {
	return MimeSniffer{}
}

// Detect returns the media type of head without parameters, and the usual file extension for it.
func (MimeSniffer) Detect(head []byte) (string, string) {
	detected := mimetype.Detect(head)
	mimeType, _, _ := strings.Cut(detected.String(), ";")
	return strings.TrimSpace(mimeType), detected.Extension()
}
