package in_memory

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"unicode"

	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
	"github.com/iamvkosarev/hecu-telegram-bot/pkg/wav"
)

const (
	wordFileExt    = ".wav"
	emphaticMarker = "!"
)

// WordStorage maps vocabulary words to their recorded clips. It is filled once by NewWordStorage and is
// read-only afterwards, so it is safe for concurrent use without locking.
type WordStorage struct {
	words map[string]wav.Clip
}

// NewWordStorage loads every .wav file of fsys. A file named "word!.wav" is stored as "WORD".
// Files that cannot be read or decoded are logged and left out.
func NewWordStorage(fsys fs.FS, logger *slog.Logger) (*WordStorage, error) {
	words := make(map[string]wav.Clip)
	err := fs.WalkDir(
		fsys, ".", func(filePath string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.Type().IsRegular() {
				return nil
			}
			fileName := entry.Name()
			if !strings.EqualFold(path.Ext(fileName), wordFileExt) {
				logger.Debug("skipping non-wav file", "file", filePath)
				return nil
			}
			word := wordFromFileName(fileName)
			data, err := fs.ReadFile(fsys, filePath)
			if err != nil {
				logger.Error("failed to read word audio file", "file", filePath, "err", err)
				return nil
			}
			clip, err := wav.Decode(data)
			if err != nil {
				logger.Error("failed to decode word audio file", "file", filePath, "err", err)
				return nil
			}
			words[word] = clip
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to walk words directory: %w", err)
	}

	for _, required := range []string{model.WordComma, model.WordPeriod, model.WordZero, model.WordOne} {
		if _, ok := words[required]; !ok {
			logger.Warn("vocabulary misses a special clip", "word", required)
		}
	}
	logger.Info("vocabulary loaded", "words", len(words))

	return &WordStorage{words: words}, nil
}

func NewWordStorageFromClips(words map[string]wav.Clip) *WordStorage {
	copied := make(map[string]wav.Clip, len(words))
	for word, clip := range words {
		copied[word] = clip
	}
	return &WordStorage{words: copied}
}

// Resolve finds the clip of a word, tolerating case mistakes: uppercase words prefer the emphatic
// recording, anything else prefers the plain one.
func (w *WordStorage) Resolve(word string) (wav.Clip, bool) {
	first, second := strings.ToLower(word), strings.ToUpper(word)
	if isUpperCase(word) {
		first, second = word, strings.ToLower(word)
	}
	if clip, ok := w.words[first]; ok {
		return clip, true
	}
	clip, ok := w.words[second]
	return clip, ok
}

func (w *WordStorage) Words() []string {
	words := make([]string, 0, len(w.words))
	for word := range w.words {
		words = append(words, word)
	}
	return words
}

func wordFromFileName(fileName string) string {
	if mark := strings.Index(fileName, emphaticMarker); mark != -1 {
		return strings.ToUpper(fileName[:mark])
	}
	return strings.TrimSuffix(fileName, path.Ext(fileName))
}

// isUpperCase reports whether every letter of s is uppercase. Non-letters are ignored.
func isUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
