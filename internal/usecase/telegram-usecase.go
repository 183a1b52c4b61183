package usecase

import (
	"context"
	"fmt"
	"log/slog"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"
	"github.com/iamvkosarev/hecu-telegram-bot/config"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
	"github.com/iamvkosarev/hecu-telegram-bot/pkg/local"
	"github.com/sourcegraph/conc/pool"
)

const (
	chatTypeGroup      = "group"
	chatTypeSuperGroup = "supergroup"
)

type MessageHandler interface {
	HandleMessage(ctx context.Context, msg model.InboundMessage) error
}

type TelegramUsecaseDeps struct {
	Bot          *api.BotAPI
	Conversation MessageHandler
	Messenger    Messenger
	Logger       *slog.Logger
}

// TelegramUsecase polls Telegram for updates and hands every message to its own worker.
type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg          config.Telegram
	allowedUsers map[int64]struct{}
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps) (*TelegramUsecase, error) {
	allowedUsers := make(map[int64]struct{}, len(cfg.AllowedTelegramID))
	for _, userID := range cfg.AllowedTelegramID {
		allowedUsers[userID] = struct{}{}
	}

	_, err := deps.Bot.Request(api.NewSetMyCommands(BotCommands()...))
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		allowedUsers:        allowedUsers,
	}, nil
}

func BotCommands() []api.BotCommand {
	return []api.BotCommand{
		{Command: CommandStart, Description: "Activate the bot in this chat"},
		{Command: CommandStop, Description: "Deactivate the bot"},
		{Command: CommandList, Description: "Show the words I can say"},
		{Command: CommandSay, Description: "Say a sentence"},
		{Command: CommandBinary, Description: "Read a text in binary"},
		{Command: CommandPhoto, Description: "Search or get random photos"},
		{Command: CommandHelp, Description: "Get help"},
	}
}

// Run blocks until ctx is cancelled, then waits for the messages being handled.
func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = t.cfg.UpdateTimeout

	updates := t.Bot.GetUpdatesChan(u)
	workers := pool.New().WithMaxGoroutines(t.cfg.Workers)
	defer workers.Wait()

	t.Logger.Info("telegram polling started", "username", t.Bot.Self.UserName, "workers", t.cfg.Workers)
	for {
		select {
		case <-ctx.Done():
			t.Logger.Info("telegram polling stopping")
			t.Bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			msg, ok := toInboundMessage(update.Message)
			if !ok {
				continue
			}
			workers.Go(
				func() {
					t.handleMessage(ctx, msg)
				},
			)
		}
	}
}

func (t *TelegramUsecase) handleMessage(ctx context.Context, msg model.InboundMessage) {
	logger := t.Logger.With(
		"request_id", uuid.NewString(), "chat_id", msg.ChatID, "user_id", msg.UserID,
	)
	logger.Debug("message received", "text", msg.Text, "group", msg.IsGroup)

	if !t.isAllowed(msg.UserID) {
		text := MessageUserNoAccess.Text(local.ParseLanguage(msg.LanguageCode))
		if err := t.Messenger.SendText(ctx, msg.ChatID, text, msg.MessageID); err != nil {
			logger.Error("failed to send no access message", "err", err)
		}
		return
	}

	if err := t.Conversation.HandleMessage(ctx, msg); err != nil {
		logger.Error("failed to handle message", "err", err)
	}
}

func (t *TelegramUsecase) isAllowed(userID int64) bool {
	if !t.cfg.IsNotPublic {
		return true
	}
	_, ok := t.allowedUsers[userID]
	return ok
}

func toInboundMessage(message *api.Message) (model.InboundMessage, bool) {
	if message.From == nil || message.Text == "" {
		return model.InboundMessage{}, false
	}
	return model.InboundMessage{
		ChatID:       message.Chat.ID,
		UserID:       message.From.ID,
		MessageID:    message.MessageID,
		Text:         message.Text,
		LanguageCode: message.From.LanguageCode,
		IsGroup:      isGroupChat(message.Chat.Type),
	}, true
}

func isGroupChat(chatType string) bool {
	return chatType == chatTypeGroup || chatType == chatTypeSuperGroup
}
