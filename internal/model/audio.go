package model

import (
	"time"

	"github.com/iamvkosarev/hecu-telegram-bot/pkg/wav"
)

// Vocabulary entries with a fixed role: pauses after punctuation and the binary digits.
const (
	WordComma  = "_comma"
	WordPeriod = "_period"
	WordZero   = "ZERO"
	WordOne    = "ONE"
)

// AssembledAudio is the result of joining vocabulary clips. Words holds the label of every segment in
// playback order.
type AssembledAudio struct {
	Words []string
	Audio wav.Clip
}

func (a AssembledAudio) Duration() time.Duration {
	return a.Audio.Duration()
}

// WAV returns the audio as a complete WAV file.
func (a AssembledAudio) WAV() []byte {
	return wav.Encode(a.Audio)
}

type BinaryResult struct {
	Bits  string
	Audio AssembledAudio
}
