package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideConfig_Defaults(t *testing.T) {
	t.Setenv(ENV_OUTPUT_DIR, "")
	t.Setenv(ENV_ARCHIVE_DATABASE_PATH, "")
	t.Setenv(ENV_FETCH_LOG_RETENTION_DAYS, "")

	config, err := ProvideConfig()
	require.NoError(t, err)

	assert.Equal(t, DEFAULT_OUTPUT_DIR, config.OutputDir)
	assert.Equal(t, DEFAULT_ARCHIVE_DATABASE_PATH, config.ArchiveDBPath)
	assert.Equal(t, DEFAULT_FETCH_LOG_RETENTION_DAYS, config.FetchLogRetentionDays)
}

func TestProvideConfig_EnvOverrides(t *testing.T) {
	t.Setenv(ENV_OUTPUT_DIR, "/tmp/artifacts")
	t.Setenv(ENV_ARCHIVE_DATABASE_PATH, "custom.db")
	t.Setenv(ENV_FETCH_LOG_RETENTION_DAYS, "7")
	t.Setenv(ENV_X_COOKIES, "auth_token=abc;")

	config, err := ProvideConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/artifacts", config.OutputDir)
	assert.Equal(t, "custom.db", config.ArchiveDBPath)
	assert.Equal(t, 7, config.FetchLogRetentionDays)
	assert.Equal(t, "auth_token=abc;", config.Cookies)
}

func TestProvideConfig_InvalidRetention(t *testing.T) {
	for _, value := range []string{"soon", "0", "-3"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv(ENV_FETCH_LOG_RETENTION_DAYS, value)

			_, err := ProvideConfig()
			assert.Error(t, err)
		})
	}
}

func TestProvideTelegramNotifier_NotifyRequiresConfig(t *testing.T) {
	config := &Config{}

	_, err := ProvideTelegramNotifier(config, &CLIOptions{Notify: true})
	assert.Error(t, err)

	notifier, err := ProvideTelegramNotifier(config, &CLIOptions{})
	require.NoError(t, err)
	assert.False(t, notifier.Enabled())
}

func TestProvideClaudeAPI_SummarizeRequiresKey(t *testing.T) {
	claudeApi, err := ProvideClaudeAPI(&Config{}, &CLIOptions{})
	require.NoError(t, err)
	assert.Nil(t, claudeApi)

	_, err = ProvideClaudeAPI(&Config{}, &CLIOptions{Summarize: true})
	assert.Error(t, err)

	claudeApi, err = ProvideClaudeAPI(&Config{ClaudeAPIKey: "key"}, &CLIOptions{Summarize: true})
	require.NoError(t, err)
	assert.NotNil(t, claudeApi)
}

func TestBuildContainer_WiresApplication(t *testing.T) {
	t.Setenv(ENV_OUTPUT_DIR, t.TempDir())
	t.Setenv(ENV_FETCH_LOG_RETENTION_DAYS, "")

	opts := &CLIOptions{Identifier: "1892413385804792307", NoArchive: true}

	container, err := BuildContainer(opts)
	require.NoError(t, err)

	err = container.Invoke(func(app *Application) {
		assert.NotNil(t, app)
		assert.False(t, app.archive.Enabled())
		assert.Equal(t, "1892413385804792307", app.opts.Identifier)
	})
	require.NoError(t, err)
}
