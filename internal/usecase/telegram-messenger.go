package usecase

import (
	"context"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
)

const voiceFileName = "hecu.ogg"

type VoiceEncoder interface {
	ToVoice(ctx context.Context, wav []byte) ([]byte, error)
}

// TelegramMessenger delivers replies through the Bot API. Every reply quotes the triggering message.
type TelegramMessenger struct {
	bot   *api.BotAPI
	voice VoiceEncoder
}

func NewTelegramMessenger(bot *api.BotAPI, voice VoiceEncoder) *TelegramMessenger {
	return &TelegramMessenger{
		bot:   bot,
		voice: voice,
	}
}

func (t *TelegramMessenger) SendText(ctx context.Context, chatID int64, text string, replyTo int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := api.NewMessage(chatID, text)
	msg.ReplyParameters.MessageID = replyTo
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to bot: %w", err)
	}
	return nil
}

// SendAudio transcodes wav into a voice note before sending it.
func (t *TelegramMessenger) SendAudio(ctx context.Context, chatID int64, wav []byte, replyTo int) error {
	ogg, err := t.voice.ToVoice(ctx, wav)
	if err != nil {
		return fmt.Errorf("failed to encode voice: %w", err)
	}
	voice := api.NewVoice(chatID, api.FileBytes{Name: voiceFileName, Bytes: ogg})
	voice.ReplyParameters.MessageID = replyTo
	if _, err = t.bot.Send(voice); err != nil {
		return fmt.Errorf("failed to send voice to bot: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) SendPhoto(ctx context.Context, chatID int64, photo model.PhotoResult, replyTo int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := api.NewPhoto(chatID, api.FileReader{Name: photo.Name, Reader: photo.Content})
	msg.ReplyParameters.MessageID = replyTo
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send photo to bot: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) SendPhotoGroup(
	ctx context.Context, chatID int64, photos []model.PhotoResult, replyTo int,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	media := make([]api.InputMedia, 0, len(photos))
	for _, photo := range photos {
		item := api.NewInputMediaPhoto(api.FileReader{Name: photo.Name, Reader: photo.Content})
		media = append(media, &item)
	}
	group := api.NewMediaGroup(chatID, media)
	group.ReplyParameters.MessageID = replyTo
	if _, err := t.bot.SendMediaGroup(group); err != nil {
		return fmt.Errorf("failed to send media group to bot: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) SendProgress(ctx context.Context, chatID int64, action model.ChatAction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.RequestWithContext(ctx, api.NewChatAction(chatID, string(action))); err != nil {
		return fmt.Errorf("failed to send chat action to bot: %w", err)
	}
	return nil
}
