package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"testcase_generator/internal/app"
	"testcase_generator/internal/config"
	"testcase_generator/internal/logger"
)

type proxyFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// newProxy adapts the API router to API Gateway proxy events
func newProxy(r *gin.Engine) proxyFunc {
	return ginadapter.New(r).ProxyWithContext
}

func main() {
	settings, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(settings.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)
	a, err := app.New(context.Background(), settings, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("failed to initialize app", zap.Error(err))
	}

	lambda.Start(newProxy(a.Router()))
}
