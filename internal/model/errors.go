package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput           = errors.New("empty input")
	ErrTooLarge             = errors.New("input too large")
	ErrQuotaExceeded        = errors.New("daily photo search quota exceeded")
	ErrMalformedRequest     = errors.New("malformed request")
	ErrPhotoCountOutOfRange = fmt.Errorf("%w: photo count out of range", ErrMalformedRequest)
	ErrUnsupportedContent   = errors.New("unsupported content type")
	ErrSourceExhausted      = errors.New("image source exhausted")
)

type WordNotFoundError struct {
	Word string
}

func (e *WordNotFoundError) Error() string {
	return fmt.Sprintf("Word %q not found", e.Word)
}
