package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"AZURE_OPENAI_KEY",
	"AZURE_OPENAI_ENDPOINT",
	"AZURE_OPENAI_DEPLOYMENT",
	"JIRA_URL",
	"JIRA_EMAIL",
	"JIRA_API_TOKEN",
	"JIRA_TIMEOUT",
	"JIRA_REQUIRE_CONNECTION",
	"PROJECT_NAME",
	"VERSION",
	"PORT",
	"LOG_LEVEL",
	"CORS_ALLOWED_ORIGINS",
	"SLACK_BOT_TOKEN",
	"SLACK_CHANNEL",
	"SUITE_BUCKET_NAME",
}

// clearEnv unsets every variable Load reads and restores them when the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AZURE_OPENAI_KEY", "ai-key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("JIRA_URL", "https://example.atlassian.net/")
	t.Setenv("JIRA_EMAIL", "qa@example.com")
	t.Setenv("JIRA_API_TOKEN", "jira-token")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultProjectName, cfg.ProjectName)
	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "ai-key", cfg.AI.APIKey)
	assert.Equal(t, DefaultDeployment, cfg.AI.Deployment)
	assert.Equal(t, "https://example.atlassian.net", cfg.Jira.URL)
	assert.Equal(t, "qa@example.com", cfg.Jira.Email)
	assert.Equal(t, "jira-token", cfg.Jira.APIToken)
	assert.Equal(t, DefaultJiraTimeout, cfg.Jira.Timeout)
	assert.False(t, cfg.Jira.RequireConnection)
	assert.False(t, cfg.Slack.Enabled())
	assert.Empty(t, cfg.SuiteBucketName)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   []string
		missing []string
	}{
		{
			name:    "Missing AI key",
			unset:   []string{"AZURE_OPENAI_KEY"},
			missing: []string{"AZURE_OPENAI_KEY"},
		},
		{
			name:    "Missing Jira URL",
			unset:   []string{"JIRA_URL"},
			missing: []string{"JIRA_URL"},
		},
		{
			name:    "Missing Jira credentials",
			unset:   []string{"JIRA_EMAIL", "JIRA_API_TOKEN"},
			missing: []string{"JIRA_EMAIL", "JIRA_API_TOKEN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			for _, key := range tt.unset {
				require.NoError(t, os.Unsetenv(key))
			}

			_, err := Load("")
			require.Error(t, err)
			for _, key := range tt.missing {
				assert.Contains(t, err.Error(), key)
			}
		})
	}
}

func TestLoadRejectsBlankRequired(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("JIRA_API_TOKEN", "   ")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JIRA_API_TOKEN")
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("JIRA_TIMEOUT", "5s")
	t.Setenv("JIRA_REQUIRE_CONNECTION", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://qa.example.com")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL", "#qa")
	t.Setenv("SUITE_BUCKET_NAME", "suites")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Jira.Timeout)
	assert.True(t, cfg.Jira.RequireConnection)
	assert.Equal(t, []string{"http://localhost:3000", "https://qa.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.Slack.Enabled())
	assert.Equal(t, "suites", cfg.SuiteBucketName)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Negative timeout", key: "JIRA_TIMEOUT", value: "-1s"},
		{name: "Sub-second timeout", key: "JIRA_TIMEOUT", value: "500ms"},
		{name: "Zero seconds", key: "JIRA_TIMEOUT", value: "0"},
		{name: "Timeout without a number", key: "JIRA_TIMEOUT", value: "soon"},
		{name: "Port out of range", key: "PORT", value: "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadTimeout(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{value: "30", want: 30 * time.Second},
		{value: " 45 ", want: 45 * time.Second},
		{value: "1m", want: time.Minute},
		{value: "1s", want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			t.Setenv("JIRA_TIMEOUT", tt.value)

			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Jira.Timeout)
		})
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "AZURE_OPENAI_KEY=file-key\n" +
		"AZURE_OPENAI_ENDPOINT=https://file.openai.azure.com\n" +
		"JIRA_URL=https://file.atlassian.net\n" +
		"JIRA_EMAIL=file@example.com\n" +
		"JIRA_API_TOKEN=file-token\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// the process environment takes precedence over the file
	t.Setenv("JIRA_EMAIL", "env@example.com")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.AI.APIKey)
	assert.Equal(t, "https://file.atlassian.net", cfg.Jira.URL)
	assert.Equal(t, "env@example.com", cfg.Jira.Email)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}
