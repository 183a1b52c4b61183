package usecase

import (
	"fmt"
	"strings"

	"github.com/iamvkosarev/hecu-telegram-bot/config"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
	"github.com/iamvkosarev/hecu-telegram-bot/pkg/wav"
)

type BinaryUsecaseDeps struct {
	Words WordResolver
}

// BinaryUsecase renders text as its bits and reads them out with the ZERO and ONE clips.
type BinaryUsecase struct {
	BinaryUsecaseDeps
	cfg config.Binary
}

func NewBinaryUsecase(cfg config.Binary, deps BinaryUsecaseDeps) *BinaryUsecase {
	return &BinaryUsecase{
		BinaryUsecaseDeps: deps,
		cfg:               cfg,
	}
}

// Encode returns the UTF-8 bytes of text as space separated 8-bit groups, with one clip per digit.
// A bit string longer than the configured limit is rejected with model.ErrTooLarge before any audio
// is touched.
func (b *BinaryUsecase) Encode(text string) (model.BinaryResult, error) {
	if text == "" {
		return model.BinaryResult{}, model.ErrEmptyInput
	}
	bits := ToBits(text)
	if len(bits) > b.cfg.LengthLimit {
		return model.BinaryResult{}, fmt.Errorf("%w: %d bits, limit %d", model.ErrTooLarge, len(bits), b.cfg.LengthLimit)
	}

	zero, ok := b.Words.Resolve(model.WordZero)
	if !ok {
		return model.BinaryResult{}, &model.WordNotFoundError{Word: model.WordZero}
	}
	one, ok := b.Words.Resolve(model.WordOne)
	if !ok {
		return model.BinaryResult{}, &model.WordNotFoundError{Word: model.WordOne}
	}

	words := make([]string, 0, len(bits))
	clips := make([]wav.Clip, 0, len(bits))
	for _, digit := range bits {
		switch digit {
		case '0':
			words = append(words, model.WordZero)
			clips = append(clips, zero)
		case '1':
			words = append(words, model.WordOne)
			clips = append(clips, one)
		}
	}
	audio, err := assemble(words, clips)
	if err != nil {
		return model.BinaryResult{}, err
	}
	return model.BinaryResult{
		Bits:  bits,
		Audio: audio,
	}, nil
}

// ToBits formats every byte of s as eight binary digits, joining the groups with single spaces.
func ToBits(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) * 9)
	for i := 0; i < len(s); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%08b", s[i])
	}
	return sb.String()
}
