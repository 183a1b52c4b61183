package model

import (
	"errors"
	"io"
)

// PhotoMode selects the image source: a search query, or random images of a given size.
type PhotoMode struct {
	Query  string
	Random bool
	Width  int
	Height int
}

type PhotoRequest struct {
	Mode  PhotoMode
	Count int
}

// PhotoResult is a validated image stream. The receiver owns Content and must Close it.
type PhotoResult struct {
	Name     string
	MimeType string
	Content  io.ReadCloser
}

func (p PhotoResult) Close() error {
	if p.Content == nil {
		return nil
	}
	return p.Content.Close()
}

// ClosePhotos releases every stream and returns the joined close errors.
func ClosePhotos(photos []PhotoResult) error {
	var errs []error
	for _, photo := range photos {
		if err := photo.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type ProgressStage int8

const (
	ProgressBatch = ProgressStage(iota)
	ProgressCandidate
	ProgressAccepted
)

type ProgressEvent struct {
	Stage     ProgressStage
	Accepted  int
	Requested int
}
