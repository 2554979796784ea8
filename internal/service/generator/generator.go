package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"go.uber.org/zap"

	"testcase_generator/internal/model"
)

var (
	ErrEmptyUserStory = errors.New("user story is required")
	ErrNoTestCases    = errors.New("no test cases were generated")
)

// Chatter is the chat completion backend
type Chatter interface {
	Chat(ctx context.Context, messages []azopenai.ChatRequestMessageClassification) (string, error)
}

// Generator turns a user story into test cases
type Generator struct {
	chat Chatter
	log  *zap.Logger
}

func New(chat Chatter, log *zap.Logger) *Generator {
	return &Generator{chat: chat, log: log}
}

type completion struct {
	TestCases []rawTestCase `json:"test_cases"`
}

type rawTestCase struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Type           string          `json:"type"`
	Steps          json.RawMessage `json:"steps"`
	ExpectedResult string          `json:"expected_result"`
}

// Generate asks the model for positive and negative test cases covering the
// story and its acceptance criteria.
func (g *Generator) Generate(ctx context.Context, userStory, acceptanceCriteria string) ([]model.TestCase, error) {
	userStory = strings.TrimSpace(userStory)
	if userStory == "" {
		return nil, ErrEmptyUserStory
	}

	messages := []azopenai.ChatRequestMessageClassification{
		&azopenai.ChatRequestSystemMessage{Content: azopenai.NewChatRequestSystemMessageContent(systemPrompt)},
		&azopenai.ChatRequestUserMessage{Content: azopenai.NewChatRequestUserMessageContent(userPrompt(userStory, acceptanceCriteria))},
	}

	content, err := g.chat.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generate test cases: %w", err)
	}

	cases, err := parse(content)
	if err != nil {
		g.log.Warn("unparseable completion", zap.Error(err), zap.Int("length", len(content)))
		return nil, err
	}

	g.log.Info("generated test cases", zap.Int("count", len(cases)))
	return cases, nil
}

func parse(content string) ([]model.TestCase, error) {
	var out completion
	if err := json.Unmarshal([]byte(stripFences(content)), &out); err != nil {
		return nil, fmt.Errorf("decode test cases: %w", err)
	}

	cases := make([]model.TestCase, 0, len(out.TestCases))
	for _, raw := range out.TestCases {
		title := strings.TrimSpace(raw.Title)
		if title == "" {
			continue
		}
		tc := model.TestCase{
			ID:             strings.TrimSpace(raw.ID),
			Title:          title,
			Type:           normalizeType(raw.Type),
			Steps:          decodeSteps(raw.Steps),
			ExpectedResult: strings.TrimSpace(raw.ExpectedResult),
		}
		if tc.ID == "" {
			tc.ID = fmt.Sprintf("TC-%03d", len(cases)+1)
		}
		cases = append(cases, tc)
	}

	if len(cases) == 0 {
		return nil, ErrNoTestCases
	}
	return cases, nil
}

// stripFences removes a surrounding Markdown code fence, if any
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// language tag
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func normalizeType(t string) model.TestCaseType {
	if strings.EqualFold(strings.TrimSpace(t), string(model.TestCaseNegative)) {
		return model.TestCaseNegative
	}
	return model.TestCasePositive
}

// decodeSteps accepts a list of steps or a single newline separated string
func decodeSteps(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		list = strings.Split(text, "\n")
	}

	steps := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}
