package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/grutapig/xtract/claude"
	"github.com/grutapig/xtract/xapi"
	"go.uber.org/dig"
)

type Config struct {
	Cookies               string
	ProxyDSN              string
	ProxyClaudeDSN        string
	OutputDir             string
	TokenCacheDir         string
	ArchiveDBPath         string
	FetchLogRetentionDays int
	ClaudeAPIKey          string
	TelegramAPIKey        string
	TelegramAdminChatID   string
}

// CLIOptions carries the parsed command line. Flag values override their
// env counterparts.
type CLIOptions struct {
	Identifier string
	OutputDir  string
	Cookies    string
	SaveRaw    bool
	Markdown   bool
	Replies    bool
	Pretty     bool
	NoArchive  bool
	Notify     bool
	Summarize  bool
	MaxDepth   int
	Attempts   int
	Debug      bool
}

func ProvideConfig() (*Config, error) {
	outputDir := os.Getenv(ENV_OUTPUT_DIR)
	if outputDir == "" {
		outputDir = DEFAULT_OUTPUT_DIR
	}

	archiveDBPath := os.Getenv(ENV_ARCHIVE_DATABASE_PATH)
	if archiveDBPath == "" {
		archiveDBPath = DEFAULT_ARCHIVE_DATABASE_PATH
	}

	retentionDays := DEFAULT_FETCH_LOG_RETENTION_DAYS
	if raw := os.Getenv(ENV_FETCH_LOG_RETENTION_DAYS); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid %s value: %s", ENV_FETCH_LOG_RETENTION_DAYS, raw)
		}
		retentionDays = days
	}

	return &Config{
		Cookies:               os.Getenv(ENV_X_COOKIES),
		ProxyDSN:              os.Getenv(ENV_PROXY_DSN),
		ProxyClaudeDSN:        os.Getenv(ENV_PROXY_CLAUDE_DSN),
		OutputDir:             outputDir,
		TokenCacheDir:         os.Getenv(ENV_TOKEN_CACHE_DIR),
		ArchiveDBPath:         archiveDBPath,
		FetchLogRetentionDays: retentionDays,
		ClaudeAPIKey:          os.Getenv(ENV_CLAUDE_API_KEY),
		TelegramAPIKey:        os.Getenv(ENV_TELEGRAM_API_KEY),
		TelegramAdminChatID:   os.Getenv(ENV_TELEGRAM_ADMIN_CHAT_ID),
	}, nil
}

func ProvideTokenCache(config *Config) *xapi.GuestTokenCache {
	return xapi.NewGuestTokenCache(config.TokenCacheDir, nil)
}

func ProvideXAPIService(config *Config, opts *CLIOptions, tokens *xapi.GuestTokenCache) *xapi.XAPIService {
	cookies := config.Cookies
	if opts.Cookies != "" {
		cookies = opts.Cookies
	}

	service := xapi.NewXAPIService(tokens, cookies, config.ProxyDSN, opts.Debug)
	service.SetLimits(opts.Attempts, opts.MaxDepth)
	return service
}

func ProvideFileService(config *Config, opts *CLIOptions) *FileService {
	outputDir := config.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	return NewFileService(outputDir)
}

func ProvideMarkdownFormatter() *MarkdownFormatter {
	return NewMarkdownFormatter()
}

func ProvideArchiveService(config *Config, opts *CLIOptions) (*ArchiveService, error) {
	if opts.NoArchive {
		return NewDisabledArchiveService(), nil
	}
	return NewArchiveService(config.ArchiveDBPath)
}

func ProvideTelegramNotifier(config *Config, opts *CLIOptions) (*TelegramNotifier, error) {
	notifier := NewTelegramNotifier(config.TelegramAPIKey, config.TelegramAdminChatID)
	if opts.Notify && !notifier.Enabled() {
		return nil, fmt.Errorf("notification requires %s and %s to be set", ENV_TELEGRAM_API_KEY, ENV_TELEGRAM_ADMIN_CHAT_ID)
	}
	return notifier, nil
}

func ProvideClaudeAPI(config *Config, opts *CLIOptions) (*claude.ClaudeApi, error) {
	if !opts.Summarize {
		return nil, nil
	}
	if config.ClaudeAPIKey == "" {
		return nil, fmt.Errorf("summary requires %s to be set", ENV_CLAUDE_API_KEY)
	}
	return claude.NewClaudeClient(config.ClaudeAPIKey, config.ProxyClaudeDSN, claude.CLAUDE_MODEL)
}

func ProvideSummaryService(claudeApi *claude.ClaudeApi) *SummaryService {
	return NewSummaryService(claudeApi)
}

func BuildContainer(opts *CLIOptions) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() *CLIOptions { return opts }); err != nil {
		return nil, fmt.Errorf("failed to provide cli options: %w", err)
	}

	if err := container.Provide(ProvideConfig); err != nil {
		return nil, fmt.Errorf("failed to provide config: %w", err)
	}

	if err := container.Provide(ProvideTokenCache); err != nil {
		return nil, fmt.Errorf("failed to provide token cache: %w", err)
	}

	if err := container.Provide(ProvideXAPIService); err != nil {
		return nil, fmt.Errorf("failed to provide X API service: %w", err)
	}

	if err := container.Provide(ProvideFileService); err != nil {
		return nil, fmt.Errorf("failed to provide file service: %w", err)
	}

	if err := container.Provide(ProvideMarkdownFormatter); err != nil {
		return nil, fmt.Errorf("failed to provide markdown formatter: %w", err)
	}

	if err := container.Provide(ProvideArchiveService); err != nil {
		return nil, fmt.Errorf("failed to provide archive service: %w", err)
	}

	if err := container.Provide(ProvideTelegramNotifier); err != nil {
		return nil, fmt.Errorf("failed to provide Telegram notifier: %w", err)
	}

	if err := container.Provide(ProvideClaudeAPI); err != nil {
		return nil, fmt.Errorf("failed to provide Claude API: %w", err)
	}

	if err := container.Provide(ProvideSummaryService); err != nil {
		return nil, fmt.Errorf("failed to provide summary service: %w", err)
	}

	if err := container.Provide(NewApplication); err != nil {
		return nil, fmt.Errorf("failed to provide application: %w", err)
	}

	return container, nil
}
