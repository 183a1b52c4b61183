package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Telegram struct {
	TelegramAPIToken  string  `yaml:"api_token" env:"TELEGRAM_APITOKEN" env-required:"true"`
	AllowedTelegramID []int64 `yaml:"allowed_telegram_id" env:"ALLOWED_TELEGRAM_ID" env-separator:","`
	IsNotPublic       bool    `yaml:"is_not_public" env:"TELEGRAM_NOT_PUBLIC" env-default:"false"`
	UpdateTimeout     int     `yaml:"update_timeout" env:"TELEGRAM_UPDATE_TIMEOUT" env-default:"60"`
	Workers           int     `yaml:"workers" env:"TELEGRAM_WORKERS" env-default:"16"`
	Debug             bool    `yaml:"debug" env:"TELEGRAM_DEBUG" env-default:"false"`
}

type Words struct {
	Dir string `yaml:"dir" env:"WORDS_DIR" env-default:"words"`
}

type Binary struct {
	LengthLimit int `yaml:"length_limit" env:"BINARY_LENGTH_LIMIT" env-default:"2500"`
}

type Photo struct {
	GroupLimit          int           `yaml:"group_limit" env:"PHOTO_GROUP_LIMIT" env-default:"10"`
	RandomDefaultSize   int           `yaml:"random_default_size" env:"PHOTO_RANDOM_DEFAULT_SIZE" env-default:"800"`
	RandomMaxSize       int           `yaml:"random_max_size" env:"PHOTO_RANDOM_MAX_SIZE" env-default:"5000"`
	RandomAttemptFactor int           `yaml:"random_attempt_factor" env:"PHOTO_RANDOM_ATTEMPT_FACTOR" env-default:"3"`
	DailySearchLimit    int           `yaml:"daily_search_limit" env:"PHOTO_DAILY_SEARCH_LIMIT" env-default:"100"`
	ProgressInterval    time.Duration `yaml:"progress_interval" env:"PHOTO_PROGRESS_INTERVAL" env-default:"4s"`
	HTTPTimeout         time.Duration `yaml:"http_timeout" env:"PHOTO_HTTP_TIMEOUT" env-default:"30s"`
	UserAgent           string        `yaml:"user_agent" env:"PHOTO_USER_AGENT"`
}

type GoogleSearch struct {
	APIKey   string `yaml:"api_key" env:"GOOGLE_SEARCH_API_KEY"`
	EngineID string `yaml:"engine_id" env:"GOOGLE_SEARCH_ENGINE_ID"`
	BaseURL  string `yaml:"base_url" env:"GOOGLE_SEARCH_BASE_URL" env-default:"https://www.googleapis.com/customsearch/v1"`
	MaxStart int    `yaml:"max_start" env:"GOOGLE_SEARCH_MAX_START" env-default:"90"`
	PageSize int    `yaml:"page_size" env:"GOOGLE_SEARCH_PAGE_SIZE" env-default:"10"`
}

type Picsum struct {
	BaseURL string `yaml:"base_url" env:"PICSUM_BASE_URL" env-default:"https://picsum.photos"`
}

type Redis struct {
	Endpoint string        `yaml:"endpoint" env:"REDIS_ENDPOINT"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"SEARCH_CACHE_TTL" env-default:"24h"`
}

type Voice struct {
	FFmpegPath string `yaml:"ffmpeg_path" env:"FFMPEG_PATH" env-default:"ffmpeg"`
	Bitrate    int    `yaml:"bitrate" env:"VOICE_BITRATE" env-default:"0"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type Config struct {
	Telegram     Telegram     `yaml:"telegram"`
	Words        Words        `yaml:"words"`
	Binary       Binary       `yaml:"binary"`
	Photo        Photo        `yaml:"photo"`
	GoogleSearch GoogleSearch `yaml:"google_search"`
	Picsum       Picsum       `yaml:"picsum"`
	Redis        Redis        `yaml:"redis"`
	Voice        Voice        `yaml:"voice"`
	Log          Log          `yaml:"log"`
}

// LoadConfig reads the YAML file at cfgPath and applies environment overrides. An empty path reads
// the environment only.
func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", cfgPath, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Binary.LengthLimit < 1 {
		return fmt.Errorf("binary.length_limit must be positive, got %d", c.Binary.LengthLimit)
	}
	if c.Photo.GroupLimit < 1 {
		return fmt.Errorf("photo.group_limit must be positive, got %d", c.Photo.GroupLimit)
	}
	if c.GoogleSearch.MaxStart < 1 || c.GoogleSearch.PageSize < 1 {
		return fmt.Errorf(
			"google_search.max_start and page_size must be positive, got %d and %d",
			c.GoogleSearch.MaxStart, c.GoogleSearch.PageSize,
		)
	}
	if c.Photo.RandomDefaultSize < 1 || c.Photo.RandomDefaultSize > c.Photo.RandomMaxSize {
		return fmt.Errorf(
			"photo.random_default_size must be in [1, %d], got %d", c.Photo.RandomMaxSize,
			c.Photo.RandomDefaultSize,
		)
	}
	if c.Telegram.Workers < 1 {
		c.Telegram.Workers = 1
	}
	if c.Photo.RandomAttemptFactor < 1 {
		c.Photo.RandomAttemptFactor = 1
	}
	return nil
}
