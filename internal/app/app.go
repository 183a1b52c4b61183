package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/hecu-telegram-bot/config"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/provider"
	in_memory "github.com/iamvkosarev/hecu-telegram-bot/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/hecu-telegram-bot/internal/storage/key-value"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/usecase"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/voice"
	"github.com/redis/go-redis/v9"
)

func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	words, err := LoadVocabulary(cfg.Words.Dir, logger)
	if err != nil {
		return err
	}

	bot, err := api.NewBotAPI(cfg.Telegram.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("failed to create new bot: %w", err)
	}
	bot.Debug = cfg.Telegram.Debug
	logger.Info("authorized on account", "username", bot.Self.UserName)

	searchCache, closeCache, err := newSearchCache(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	httpClient := provider.SharedHTTPClient(cfg.Photo.HTTPTimeout)
	searcher := provider.NewCachedSearch(
		provider.NewGoogleSearch(
			httpClient, provider.GoogleSearchConfig{
				BaseURL:   cfg.GoogleSearch.BaseURL,
				APIKey:    cfg.GoogleSearch.APIKey,
				EngineID:  cfg.GoogleSearch.EngineID,
				PageSize:  cfg.GoogleSearch.PageSize,
				UserAgent: cfg.Photo.UserAgent,
			},
		),
		searchCache,
		logger,
	)
	if cfg.GoogleSearch.APIKey == "" || cfg.GoogleSearch.EngineID == "" {
		logger.Warn("google search credentials are not set, photo queries will fail")
	}

	photoUsecase := usecase.NewPhotoUsecase(
		cfg.Photo, cfg.GoogleSearch, usecase.PhotoUsecaseDeps{
			Searcher:      searcher,
			Downloader:    provider.NewImageClient(httpClient, cfg.Photo.UserAgent),
			RandomFetcher: provider.NewPicsum(httpClient, cfg.Picsum.BaseURL, cfg.Photo.UserAgent),
			Sniffer:       provider.NewMimeSniffer(),
			Quota:         in_memory.NewQuotaStorage(cfg.Photo.DailySearchLimit),
			Logger:        logger,
		},
	)

	messenger := usecase.NewTelegramMessenger(
		bot, voice.NewFFmpeg(voice.Config{BinaryPath: cfg.Voice.FFmpegPath, Bitrate: cfg.Voice.Bitrate}),
	)

	conversationUsecase := usecase.NewConversationUsecase(
		cfg.Photo, bot.Self.UserName, usecase.ConversationUsecaseDeps{
			Requests:  in_memory.NewRequestStorage(),
			Say:       usecase.NewSayUsecase(usecase.SayUsecaseDeps{Words: words}),
			Binary:    usecase.NewBinaryUsecase(cfg.Binary, usecase.BinaryUsecaseDeps{Words: words}),
			Photo:     photoUsecase,
			Messenger: messenger,
			Logger:    logger,
		},
	)

	telegramUsecase, err := usecase.NewTelegramUsecase(
		cfg.Telegram, usecase.TelegramUsecaseDeps{
			Bot:          bot,
			Conversation: conversationUsecase,
			Messenger:    messenger,
			Logger:       logger,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram usecase: %w", err)
	}

	return telegramUsecase.Run(ctx)
}

// LoadVocabulary reads the word clips of dir.
func LoadVocabulary(dir string, logger *slog.Logger) (*in_memory.WordStorage, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open words directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("words path %s is not a directory", dir)
	}
	words, err := in_memory.NewWordStorage(os.DirFS(dir), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return words, nil
}

// newSearchCache uses redis when an endpoint is configured and process memory otherwise.
func newSearchCache(
	ctx context.Context, cfg config.Redis, logger *slog.Logger,
) (provider.SearchCache, func(), error) {
	if cfg.Endpoint == "" {
		logger.Info("search cache in memory", "ttl", cfg.CacheTTL)
		return in_memory.NewSearchCache(cfg.CacheTTL), func() {}, nil
	}

	rdb := redis.NewClient(
		&redis.Options{
			Addr:     cfg.Endpoint,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
	)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Endpoint, err)
	}
	logger.Info("search cache in redis", "endpoint", cfg.Endpoint, "ttl", cfg.CacheTTL)
	return key_value.NewSearchCache(rdb, cfg.CacheTTL), func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis client", "err", err)
		}
	}, nil
}
