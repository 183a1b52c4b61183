package usecase

import (
	"fmt"
	"strings"

	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
	"github.com/iamvkosarev/hecu-telegram-bot/pkg/wav"
)

type WordResolver interface {
	Resolve(word string) (wav.Clip, bool)
	Words() []string
}

type SayUsecaseDeps struct {
	Words WordResolver
}

// SayUsecase joins vocabulary clips into sentences.
type SayUsecase struct {
	SayUsecaseDeps
}

func NewSayUsecase(deps SayUsecaseDeps) *SayUsecase {
	return &SayUsecase{
		SayUsecaseDeps: deps,
	}
}

// Assemble speaks tokens in order. A token ending with ',' or '.' is followed by a pause clip.
// The first word missing from the vocabulary stops assembly with a *model.WordNotFoundError.
func (s *SayUsecase) Assemble(tokens []string) (model.AssembledAudio, error) {
	words := make([]string, 0, len(tokens))
	clips := make([]wav.Clip, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		word, pause, pauseLabel := splitPunctuation(token)
		if word != "" {
			clip, ok := s.Words.Resolve(word)
			if !ok {
				return model.AssembledAudio{}, &model.WordNotFoundError{Word: word}
			}
			words = append(words, word)
			clips = append(clips, clip)
		}
		if pause != "" {
			clip, ok := s.Words.Resolve(pause)
			if !ok {
				return model.AssembledAudio{}, &model.WordNotFoundError{Word: pauseLabel}
			}
			words = append(words, pauseLabel)
			clips = append(clips, clip)
		}
	}
	if len(clips) == 0 {
		return model.AssembledAudio{}, model.ErrEmptyInput
	}
	return assemble(words, clips)
}

// AssembleText splits text on whitespace and assembles the tokens.
func (s *SayUsecase) AssembleText(text string) (model.AssembledAudio, error) {
	return s.Assemble(strings.Fields(text))
}

func splitPunctuation(token string) (word, pause, pauseLabel string) {
	switch {
	case strings.HasSuffix(token, ","):
		return strings.TrimSuffix(token, ","), model.WordComma, ","
	case strings.HasSuffix(token, "."):
		return strings.TrimSuffix(token, "."), model.WordPeriod, "."
	default:
		return token, "", ""
	}
}

func assemble(words []string, clips []wav.Clip) (model.AssembledAudio, error) {
	audio, err := wav.Concat(clips...)
	if err != nil {
		return model.AssembledAudio{}, fmt.Errorf("failed to concat clips: %w", err)
	}
	return model.AssembledAudio{
		Words: words,
		Audio: audio,
	}, nil
}
