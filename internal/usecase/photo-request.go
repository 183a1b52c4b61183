package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/iamvkosarev/hecu-telegram-bot/config"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
)

const (
	photoCountSeparator = "//"
	randomKeyword       = "random"
	randomSizeSeparator = "-"
)

// ParsePhotoRequest reads "<query>[//N]". A query starting with the word "random" asks for random
// images, optionally sized as "random-W" or "random-W-H".
func ParsePhotoRequest(text string, cfg config.Photo) (model.PhotoRequest, error) {
	query := strings.TrimSpace(text)
	count := cfg.GroupLimit / 2
	if index := strings.LastIndex(query, photoCountSeparator); index != -1 {
		n, err := strconv.Atoi(strings.TrimSpace(query[index+len(photoCountSeparator):]))
		if err != nil {
			return model.PhotoRequest{}, fmt.Errorf("%w: invalid photo count: %w", model.ErrMalformedRequest, err)
		}
		count = n
		query = strings.TrimSpace(query[:index])
	}
	if count < 1 || count > cfg.GroupLimit {
		return model.PhotoRequest{}, model.ErrPhotoCountOutOfRange
	}
	if query == "" {
		return model.PhotoRequest{}, fmt.Errorf("%w: empty query", model.ErrMalformedRequest)
	}

	if !isRandomQuery(query) {
		return model.PhotoRequest{
			Mode:  model.PhotoMode{Query: query},
			Count: count,
		}, nil
	}
	width, height, err := parseRandomSize(query[len(randomKeyword):], cfg)
	if err != nil {
		return model.PhotoRequest{}, err
	}
	return model.PhotoRequest{
		Mode: model.PhotoMode{
			Random: true,
			Width:  width,
			Height: height,
		},
		Count: count,
	}, nil
}

func isRandomQuery(query string) bool {
	if len(query) < len(randomKeyword) || !strings.EqualFold(query[:len(randomKeyword)], randomKeyword) {
		return false
	}
	rest := query[len(randomKeyword):]
	return rest == "" || strings.HasPrefix(rest, randomSizeSeparator) || unicode.IsSpace(rune(rest[0]))
}

func parseRandomSize(rest string, cfg config.Photo) (int, int, error) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, randomSizeSeparator) {
		return cfg.RandomDefaultSize, cfg.RandomDefaultSize, nil
	}
	parts := strings.Split(rest[len(randomSizeSeparator):], randomSizeSeparator)
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("%w: too many size parts in %q", model.ErrMalformedRequest, rest)
	}
	sizes := make([]int, 0, 2)
	for _, part := range parts {
		size, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: invalid size: %w", model.ErrMalformedRequest, err)
		}
		if size < 1 || (cfg.RandomMaxSize > 0 && size > cfg.RandomMaxSize) {
			return 0, 0, fmt.Errorf("%w: size %d out of range", model.ErrMalformedRequest, size)
		}
		sizes = append(sizes, size)
	}
	if len(sizes) == 1 {
		return sizes[0], sizes[0], nil
	}
	return sizes[0], sizes[1], nil
}
