package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"testcase_generator/internal/config"
	"testcase_generator/internal/handler"
	"testcase_generator/internal/metrics"
	"testcase_generator/internal/notify"
	"testcase_generator/internal/service/exporter"
	"testcase_generator/internal/service/generator"
	"testcase_generator/internal/service/jira"
	mcpserver "testcase_generator/internal/service/mcp-server"
	"testcase_generator/internal/service/openai"
	"testcase_generator/internal/storage"
)

// App holds the long-lived components shared by every entrypoint
type App struct {
	Settings  config.Settings
	Log       *zap.Logger
	Jira      *jira.Client
	Generator *generator.Generator
	Exporter  *exporter.Exporter
	Store     storage.SuiteStore
	Metrics   *metrics.Metrics
}

// New connects to Jira and builds every component. A failed Jira handshake
// only degrades the app, unless the settings require the connection.
func New(ctx context.Context, settings config.Settings, log *zap.Logger) (*App, error) {
	jiraClient, err := jira.NewClient(ctx, settings.Jira, log)
	if err != nil && settings.Jira.RequireConnection {
		return nil, err
	}

	aiClient, err := openai.NewClient(settings.AI, nil)
	if err != nil {
		return nil, err
	}

	store, err := newSuiteStore(ctx, settings, log)
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics()
	return &App{
		Settings:  settings,
		Log:       log,
		Jira:      jiraClient,
		Generator: generator.New(aiClient, log),
		Exporter:  exporter.New(jiraClient, newNotifier(settings, log), m, log),
		Store:     store,
		Metrics:   m,
	}, nil
}

// Router builds the gin engine serving the HTTP API
func (a *App) Router() *gin.Engine {
	return handler.NewRouter(handler.NewAPIHandler(handler.Deps{
		Settings:  a.Settings,
		Generator: a.Generator,
		Exporter:  a.Exporter,
		Store:     a.Store,
		Metrics:   a.Metrics,
		Log:       a.Log,
	}))
}

// MCPServer builds the tool server exposing generation and ticket creation
func (a *App) MCPServer() *server.MCPServer {
	return mcpserver.NewServer(a.Settings.ProjectName, a.Settings.Version, a.Generator, a.Exporter)
}

func newSuiteStore(ctx context.Context, settings config.Settings, log *zap.Logger) (storage.SuiteStore, error) {
	if settings.SuiteBucketName == "" {
		log.Info("using in-memory suite store")
		return storage.NewMemorySuiteStore(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	log.Info("using S3 suite store", zap.String("bucket", settings.SuiteBucketName))
	return storage.NewS3SuiteStore(s3.NewFromConfig(awsCfg), settings.SuiteBucketName), nil
}

func newNotifier(settings config.Settings, log *zap.Logger) notify.Notifier {
	if !settings.Slack.Enabled() {
		return notify.NopNotifier{}
	}
	log.Info("export notifications enabled", zap.String("channel", settings.Slack.Channel))
	return notify.NewSlackNotifier(settings.Slack.BotToken, settings.Slack.Channel)
}
