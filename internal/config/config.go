package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings holds all configuration for the application.
// It is resolved once by Load and passed by value to every component that needs it.
type Settings struct {
	ProjectName string
	Version     string
	Port        int
	LogLevel    string

	// CORSAllowedOrigins is the list of origins allowed by the CORS middleware, "*" allows all
	CORSAllowedOrigins []string

	AI    AIConfig
	Jira  JiraConfig
	Slack SlackConfig

	// SuiteBucketName is the S3 bucket for generated suites, empty keeps suites in memory
	SuiteBucketName string
}

// AIConfig holds the generation backend configuration
type AIConfig struct {
	APIKey     string // Required: Azure OpenAI API key
	Endpoint   string // Required: Azure OpenAI endpoint URL
	Deployment string // Azure OpenAI model deployment name
}

// JiraConfig holds the issue tracker configuration
type JiraConfig struct {
	URL      string // Required: base URL without trailing slash
	Email    string // Required: account email used for basic auth
	APIToken string // Required: API token used for basic auth

	Timeout time.Duration
	// RequireConnection makes a failed handshake fatal at startup
	RequireConnection bool
}

// SlackConfig holds the optional export notification configuration
type SlackConfig struct {
	BotToken string
	Channel  string
}

// Enabled reports whether export notifications should be posted
func (c SlackConfig) Enabled() bool {
	return c.BotToken != "" && c.Channel != ""
}

const (
	DefaultProjectName = "AI Test Case Generator"
	DefaultVersion     = "1.0.0"
	DefaultPort        = 8002
	DefaultDeployment  = "gpt-4o"
	DefaultJiraTimeout = 30 * time.Second
	MinJiraTimeout     = time.Second
)

var requiredVars = []string{
	"AZURE_OPENAI_KEY",
	"AZURE_OPENAI_ENDPOINT",
	"JIRA_URL",
	"JIRA_EMAIL",
	"JIRA_API_TOKEN",
}

// Load reads .env (when envFile exists) and the process environment and returns the settings.
// Values already present in the environment win over the file.
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("project_name", DefaultProjectName)
	v.SetDefault("version", DefaultVersion)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("azure_openai_deployment", DefaultDeployment)
	v.SetDefault("jira_timeout", DefaultJiraTimeout.String())
	v.SetDefault("jira_require_connection", false)

	var missingVars []string
	for _, env := range requiredVars {
		if strings.TrimSpace(v.GetString(strings.ToLower(env))) == "" {
			missingVars = append(missingVars, env)
		}
	}
	if len(missingVars) > 0 {
		return Settings{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	timeout, err := parseTimeout(v.GetString("jira_timeout"))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid JIRA_TIMEOUT: %w", err)
	}

	port := v.GetInt("port")
	if port <= 0 || port > 65535 {
		return Settings{}, fmt.Errorf("invalid PORT %q", v.GetString("port"))
	}

	return Settings{
		ProjectName:        v.GetString("project_name"),
		Version:            v.GetString("version"),
		Port:               port,
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		AI: AIConfig{
			APIKey:     v.GetString("azure_openai_key"),
			Endpoint:   v.GetString("azure_openai_endpoint"),
			Deployment: v.GetString("azure_openai_deployment"),
		},
		Jira: JiraConfig{
			URL:               strings.TrimRight(strings.TrimSpace(v.GetString("jira_url")), "/"),
			Email:             v.GetString("jira_email"),
			APIToken:          v.GetString("jira_api_token"),
			Timeout:           timeout,
			RequireConnection: v.GetBool("jira_require_connection"),
		},
		Slack: SlackConfig{
			BotToken: v.GetString("slack_bot_token"),
			Channel:  v.GetString("slack_channel"),
		},
		SuiteBucketName: v.GetString("suite_bucket_name"),
	}, nil
}

// parseTimeout reads a duration such as "45s" or "1m". A bare integer is a number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	var d time.Duration
	if n, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = time.ParseDuration(raw); err != nil {
		return 0, fmt.Errorf("%q is not a duration", raw)
	}
	if d < MinJiraTimeout {
		return 0, fmt.Errorf("%q is below the %s minimum", raw, MinJiraTimeout)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
