package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"go.uber.org/zap"

	"testcase_generator/internal/config"
	"testcase_generator/internal/logger"
)

// ErrEmptyCompletion is returned when the deployment answers without any content
var ErrEmptyCompletion = errors.New("chat completion returned no content")

// Client is a thin wrapper around an Azure OpenAI chat deployment
type Client struct {
	client         *azopenai.Client
	deploymentName string
	temperature    float32
}

// NewClient builds a client for the deployment named in cfg.
// transport is optional and lets tests point the client at a fake endpoint.
func NewClient(cfg config.AIConfig, transport policy.Transporter) (*Client, error) {
	keyCredential := azcore.NewKeyCredential(cfg.APIKey)

	var opts *azopenai.ClientOptions
	if transport != nil {
		opts = &azopenai.ClientOptions{}
		opts.Transport = transport
	}

	client, err := azopenai.NewClientWithKeyCredential(cfg.Endpoint, keyCredential, opts)
	if err != nil {
		return nil, fmt.Errorf("create azure openai client: %w", err)
	}

	return &Client{
		client:         client,
		deploymentName: cfg.Deployment,
		temperature:    0.2,
	}, nil
}

// Chat sends the conversation and returns the content of the first choice
func (c *Client) Chat(ctx context.Context, messages []azopenai.ChatRequestMessageClassification) (string, error) {
	logger.GetLogger().Debug("sending messages to AI",
		zap.String("deployment", c.deploymentName), zap.Int("messages", len(messages)))

	resp, err := c.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deploymentName),
		Messages:       messages,
		N:              to.Ptr[int32](1),
		Temperature:    to.Ptr(c.temperature),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", ErrEmptyCompletion
	}
	return *resp.Choices[0].Message.Content, nil
}
