package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/iamvkosarev/hecu-telegram-bot/config"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
	"github.com/iamvkosarev/hecu-telegram-bot/pkg/local"
	"github.com/sourcegraph/conc"
)

const (
	wordsPerRow       = 5
	wordListSeparator = "    "
)

type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, replyTo int) error
	SendAudio(ctx context.Context, chatID int64, wav []byte, replyTo int) error
	SendPhoto(ctx context.Context, chatID int64, photo model.PhotoResult, replyTo int) error
	SendPhotoGroup(ctx context.Context, chatID int64, photos []model.PhotoResult, replyTo int) error
	SendProgress(ctx context.Context, chatID int64, action model.ChatAction) error
}

type RequestTracker interface {
	Activate(chatID int64) bool
	Deactivate(chatID int64) bool
	IsActive(chatID int64) bool
	BeginRequest(chatID, userID int64, kind model.RequestKind) bool
	Consume(chatID, userID int64, kind model.RequestKind) bool
	HasPending(chatID, userID int64) bool
	Pending(chatID int64) []model.PendingRequest
	ActiveChats() []int64
}

type PhotoFetcher interface {
	Fetch(
		ctx context.Context, mode model.PhotoMode, count int, progress chan<- model.ProgressEvent,
	) ([]model.PhotoResult, error)
}

type ConversationUsecaseDeps struct {
	Requests  RequestTracker
	Say       *SayUsecase
	Binary    *BinaryUsecase
	Photo     PhotoFetcher
	Messenger Messenger
	Logger    *slog.Logger
}

// ConversationUsecase routes chat messages: commands open two-step requests and the next message of the
// same user completes them.
type ConversationUsecase struct {
	ConversationUsecaseDeps
	cfg     config.Photo
	botName string
}

func NewConversationUsecase(cfg config.Photo, botName string, deps ConversationUsecaseDeps) *ConversationUsecase {
	return &ConversationUsecase{
		ConversationUsecaseDeps: deps,
		cfg:                     cfg,
		botName:                 botName,
	}
}

// HandleMessage processes one inbound text message. User mistakes are answered in the chat; only
// delivery and internal failures are returned.
func (c *ConversationUsecase) HandleMessage(ctx context.Context, msg model.InboundMessage) error {
	if msg.Text == "" {
		return nil
	}
	if !c.Requests.HasPending(msg.ChatID, msg.UserID) {
		if command, ok := c.parseCommand(msg.Text, msg.IsGroup); ok {
			return c.handleCommand(ctx, msg, command)
		}
	}
	if !c.Requests.IsActive(msg.ChatID) {
		return nil
	}
	for _, kind := range model.RequestKinds {
		if c.Requests.Consume(msg.ChatID, msg.UserID, kind) {
			c.Logger.Info(
				"request consumed", "chat_id", msg.ChatID, "user_id", msg.UserID, "kind", kind,
				"pending", c.Requests.Pending(msg.ChatID),
			)
			return c.handleContinuation(ctx, msg, kind)
		}
	}
	return nil
}

// parseCommand accepts "/cmd@botname" anywhere and a bare "/cmd" outside groups.
func (c *ConversationUsecase) parseCommand(text string, isGroup bool) (string, bool) {
	name, ok := strings.CutPrefix(text, "/")
	if !ok {
		return "", false
	}
	if command, target, addressed := strings.Cut(name, "@"); addressed {
		if c.botName == "" || !strings.EqualFold(target, c.botName) {
			return "", false
		}
		name = command
	} else if isGroup {
		return "", false
	}
	switch name {
	case CommandStart, CommandStop, CommandList, CommandHelp, CommandSay, CommandBinary, CommandPhoto:
		return name, true
	default:
		return "", false
	}
}

func (c *ConversationUsecase) handleCommand(ctx context.Context, msg model.InboundMessage, command string) error {
	lang := local.ParseLanguage(msg.LanguageCode)
	switch command {
	case CommandStart:
		if !c.Requests.Activate(msg.ChatID) {
			return nil
		}
		c.Logger.Info("bot activated", "chat_id", msg.ChatID, "active_chats", c.Requests.ActiveChats())
		return c.reply(ctx, msg, MessageHi.Text(lang))
	case CommandStop:
		if !c.Requests.Deactivate(msg.ChatID) {
			return nil
		}
		c.Logger.Info("bot deactivated", "chat_id", msg.ChatID, "active_chats", c.Requests.ActiveChats())
		return c.reply(ctx, msg, MessageBye.Text(lang))
	case CommandList:
		if !c.Requests.IsActive(msg.ChatID) {
			return nil
		}
		return c.reply(ctx, msg, MessageList.Text(lang)+"\n"+FormatWordList(c.Say.Words.Words()))
	case CommandHelp:
		return c.reply(ctx, msg, MessageHelp.Format(lang, c.cfg.GroupLimit))
	case CommandSay:
		return c.beginRequest(ctx, msg, model.RequestSay, MessageSay.Text(lang))
	case CommandBinary:
		return c.beginRequest(ctx, msg, model.RequestBinary, MessageBinary.Text(lang))
	case CommandPhoto:
		return c.beginRequest(ctx, msg, model.RequestPhoto, MessagePhoto.Format(lang, c.cfg.GroupLimit))
	default:
		return nil
	}
}

func (c *ConversationUsecase) beginRequest(
	ctx context.Context, msg model.InboundMessage, kind model.RequestKind, prompt string,
) error {
	if !c.Requests.BeginRequest(msg.ChatID, msg.UserID, kind) {
		return nil
	}
	c.Logger.Info(
		"request started", "chat_id", msg.ChatID, "user_id", msg.UserID, "kind", kind,
		"pending", c.Requests.Pending(msg.ChatID),
	)
	return c.reply(ctx, msg, prompt)
}

func (c *ConversationUsecase) handleContinuation(
	ctx context.Context, msg model.InboundMessage, kind model.RequestKind,
) error {
	text := strings.TrimPrefix(msg.Text, "/")
	switch kind {
	case model.RequestSay:
		return c.handleSay(ctx, msg, text)
	case model.RequestBinary:
		return c.handleBinary(ctx, msg, text)
	case model.RequestPhoto:
		return c.handlePhoto(ctx, msg, text)
	default:
		panic(fmt.Sprintf("unknown request kind %d", kind))
	}
}

func (c *ConversationUsecase) handleSay(ctx context.Context, msg model.InboundMessage, text string) error {
	c.sendProgress(ctx, msg.ChatID, model.ChatActionRecordVoice)
	audio, err := c.Say.AssembleText(text)
	if err != nil {
		return c.replyError(ctx, msg, err)
	}
	if err = c.Messenger.SendAudio(ctx, msg.ChatID, audio.WAV(), msg.MessageID); err != nil {
		return fmt.Errorf("failed to send sentence audio: %w", err)
	}
	return nil
}

func (c *ConversationUsecase) handleBinary(ctx context.Context, msg model.InboundMessage, text string) error {
	c.sendProgress(ctx, msg.ChatID, model.ChatActionRecordVoice)
	result, err := c.Binary.Encode(text)
	if err != nil {
		return c.replyError(ctx, msg, err)
	}
	if err = c.Messenger.SendAudio(ctx, msg.ChatID, result.Audio.WAV(), msg.MessageID); err != nil {
		return fmt.Errorf("failed to send binary audio: %w", err)
	}
	return c.reply(ctx, msg, result.Bits)
}

func (c *ConversationUsecase) handlePhoto(ctx context.Context, msg model.InboundMessage, text string) error {
	request, err := ParsePhotoRequest(text, c.cfg)
	if err != nil {
		return c.replyError(ctx, msg, err)
	}

	progress := make(chan model.ProgressEvent)
	var (
		photos   []model.PhotoResult
		fetchErr error
	)
	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			photos, fetchErr = c.Photo.Fetch(ctx, request.Mode, request.Count, progress)
		},
	)
	wg.Go(
		func() {
			c.reportProgress(ctx, msg.ChatID, progress)
		},
	)
	wg.Wait()

	if fetchErr != nil {
		return c.replyError(ctx, msg, fetchErr)
	}
	defer func() {
		if closeErr := model.ClosePhotos(photos); closeErr != nil {
			c.Logger.Warn("failed to close photo streams", "chat_id", msg.ChatID, "err", closeErr)
		}
	}()

	c.sendProgress(ctx, msg.ChatID, model.ChatActionUploadPhoto)
	if len(photos) == 1 {
		err = c.Messenger.SendPhoto(ctx, msg.ChatID, photos[0], msg.MessageID)
	} else {
		err = c.Messenger.SendPhotoGroup(ctx, msg.ChatID, photos, msg.MessageID)
	}
	if err != nil {
		return fmt.Errorf("failed to send photos: %w", err)
	}
	return nil
}

// reportProgress drains progress and shows an upload action at most once per configured interval.
func (c *ConversationUsecase) reportProgress(ctx context.Context, chatID int64, progress <-chan model.ProgressEvent) {
	var lastReport time.Time
	for event := range progress {
		// A chat action stays visible for about five seconds.
		if !lastReport.IsZero() && time.Since(lastReport) < c.cfg.ProgressInterval {
			continue
		}
		c.Logger.Debug(
			"photo progress", "chat_id", chatID, "stage", event.Stage, "accepted", event.Accepted,
			"requested", event.Requested,
		)
		c.sendProgress(ctx, chatID, model.ChatActionUploadPhoto)
		lastReport = time.Now()
	}
}

// replyError answers user mistakes in the chat. Unexpected errors get a generic reply and are returned.
func (c *ConversationUsecase) replyError(ctx context.Context, msg model.InboundMessage, err error) error {
	lang := local.ParseLanguage(msg.LanguageCode)
	var (
		notFound *model.WordNotFoundError
		text     string
	)
	switch {
	case errors.Is(err, model.ErrEmptyInput):
		return nil
	case errors.As(err, &notFound):
		text = MessageWordNotFound.Format(lang, notFound.Word)
	case errors.Is(err, model.ErrTooLarge):
		text = MessageBinaryTooLarge.Text(lang)
	case errors.Is(err, model.ErrQuotaExceeded):
		text = MessagePhotoExceeded.Text(lang)
	case errors.Is(err, model.ErrPhotoCountOutOfRange):
		text = MessagePhotoLimit.Format(lang, c.cfg.GroupLimit)
	case errors.Is(err, model.ErrMalformedRequest):
		text = MessagePhotoMalformed.Format(lang, c.cfg.GroupLimit)
	case errors.Is(err, model.ErrSourceExhausted):
		text = MessagePhotoNotFound.Text(lang)
	default:
		if replyErr := c.reply(ctx, msg, MessageServerError.Text(lang)); replyErr != nil {
			c.Logger.Error("failed to send error reply", "chat_id", msg.ChatID, "err", replyErr)
		}
		return fmt.Errorf("failed to handle message: %w", err)
	}
	c.Logger.Info("request rejected", "chat_id", msg.ChatID, "user_id", msg.UserID, "reason", err)
	return c.reply(ctx, msg, text)
}

func (c *ConversationUsecase) reply(ctx context.Context, msg model.InboundMessage, text string) error {
	c.sendProgress(ctx, msg.ChatID, model.ChatActionTyping)
	if err := c.Messenger.SendText(ctx, msg.ChatID, text, msg.MessageID); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (c *ConversationUsecase) sendProgress(ctx context.Context, chatID int64, action model.ChatAction) {
	if err := c.Messenger.SendProgress(ctx, chatID, action); err != nil {
		c.Logger.Warn("failed to send chat action", "chat_id", chatID, "action", action, "err", err)
	}
}

// FormatWordList sorts words ignoring case and lays them out five per row. The pause clips are shown as
// the punctuation that triggers them.
func FormatWordList(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Slice(
		sorted, func(i, j int) bool {
			left, right := strings.ToLower(sorted[i]), strings.ToLower(sorted[j])
			if left != right {
				return left < right
			}
			return sorted[i] < sorted[j]
		},
	)

	var sb strings.Builder
	for i, word := range sorted {
		switch word {
		case model.WordComma:
			word = ","
		case model.WordPeriod:
			word = "."
		}
		if i > 0 {
			if i%wordsPerRow == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteString(wordListSeparator)
			}
		}
		sb.WriteString(word)
	}
	return sb.String()
}
