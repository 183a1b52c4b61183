package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
	in_memory "github.com/iamvkosarev/hecu-telegram-bot/internal/storage/in-memory"
	"github.com/iamvkosarev/hecu-telegram-bot/pkg/wav"
)

var (
	testFormat  = wav.Format{AudioFormat: 1, Channels: 1, SampleRate: 8000, BitsPerSample: 16}
	jpegContent = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00jpeg-body")
	pngContent  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01png-body")
	gifContent  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00gif-body")
	textContent = []byte("<html>not an image</html>")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClip(frames int, fill byte) wav.Clip {
	data := make([]byte, frames*testFormat.BlockAlign())
	for i := range data {
		data[i] = fill
	}
	return wav.Clip{Format: testFormat, Data: data}
}

func testVocabulary() *in_memory.WordStorage {
	return in_memory.NewWordStorageFromClips(
		map[string]wav.Clip{
			"hello":    testClip(10, 'h'),
			"HEAVY":    testClip(20, 'H'),
			"weapons":  testClip(30, 'w'),
			"_comma":   testClip(3, ','),
			"_period":  testClip(4, '.'),
			"ZERO":     testClip(2, '0'),
			"ONE":      testClip(5, '1'),
			"activate": testClip(7, 'a'),
		},
	)
}

// trackedBody records whether the consumer closed it.
type trackedBody struct {
	io.Reader
	mu     sync.Mutex
	closed bool
}

func newTrackedBody(content []byte) *trackedBody {
	return &trackedBody{Reader: bytes.NewReader(content)}
}

func (b *trackedBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *trackedBody) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

type mockSearcher struct {
	mu         sync.Mutex
	pages      map[int][]string
	starts     []int
	ShouldFail bool
}

func (m *mockSearcher) SearchImages(_ context.Context, _ string, start int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = append(m.starts, start)
	if m.ShouldFail {
		return nil, errors.New("search failed")
	}
	return m.pages[start], nil
}

func (m *mockSearcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.starts)
}

type mockDownloader struct {
	mu      sync.Mutex
	content map[string][]byte
	bodies  []*trackedBody
}

func (m *mockDownloader) Download(_ context.Context, link string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.content[link]
	if !ok {
		return nil, errors.New("404 not found")
	}
	body := newTrackedBody(content)
	m.bodies = append(m.bodies, body)
	return body, nil
}

func (m *mockDownloader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bodies)
}

type mockRandomFetcher struct {
	mu       sync.Mutex
	contents [][]byte
	sizes    [][2]int
	bodies   []*trackedBody
}

func (m *mockRandomFetcher) FetchRandomImage(_ context.Context, width, height int) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes = append(m.sizes, [2]int{width, height})
	content := m.contents[(len(m.sizes)-1)%len(m.contents)]
	body := newTrackedBody(content)
	m.bodies = append(m.bodies, body)
	return body, nil
}

type sentMessage struct {
	Kind    string
	ChatID  int64
	Text    string
	ReplyTo int
	Photos  []string
	Action  model.ChatAction
}

type mockMessenger struct {
	mu         sync.Mutex
	sent       []sentMessage
	ShouldFail bool
}

func (m *mockMessenger) record(msg sentMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail && msg.Kind != "action" {
		return errors.New("telegram unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockMessenger) SendText(_ context.Context, chatID int64, text string, replyTo int) error {
	return m.record(sentMessage{Kind: "text", ChatID: chatID, Text: text, ReplyTo: replyTo})
}

func (m *mockMessenger) SendAudio(_ context.Context, chatID int64, wav []byte, replyTo int) error {
	return m.record(sentMessage{Kind: "audio", ChatID: chatID, Text: string(wav[:4]), ReplyTo: replyTo})
}

func (m *mockMessenger) SendPhoto(_ context.Context, chatID int64, photo model.PhotoResult, replyTo int) error {
	return m.record(sentMessage{Kind: "photo", ChatID: chatID, Photos: []string{photo.Name}, ReplyTo: replyTo})
}

func (m *mockMessenger) SendPhotoGroup(
	_ context.Context, chatID int64, photos []model.PhotoResult, replyTo int,
) error {
	names := make([]string, 0, len(photos))
	for _, photo := range photos {
		names = append(names, photo.Name)
	}
	return m.record(sentMessage{Kind: "photo_group", ChatID: chatID, Photos: names, ReplyTo: replyTo})
}

func (m *mockMessenger) SendProgress(_ context.Context, chatID int64, action model.ChatAction) error {
	return m.record(sentMessage{Kind: "action", ChatID: chatID, Action: action})
}

// Replies returns everything but chat actions.
func (m *mockMessenger) Replies() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	replies := make([]sentMessage, 0, len(m.sent))
	for _, msg := range m.sent {
		if msg.Kind != "action" {
			replies = append(replies, msg)
		}
	}
	return replies
}

func (m *mockMessenger) Actions(action model.ChatAction) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, msg := range m.sent {
		if msg.Kind == "action" && msg.Action == action {
			count++
		}
	}
	return count
}
