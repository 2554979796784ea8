package model

import "time"

// TestCaseType classifies a test case as a happy or unhappy path
type TestCaseType string

const (
	TestCasePositive TestCaseType = "Positive"
	TestCaseNegative TestCaseType = "Negative"
)

// TestCase is one generated (or hand written) test case
type TestCase struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Type           TestCaseType `json:"type"`
	Steps          []string     `json:"steps"`
	ExpectedResult string       `json:"expected_result"`
}

// Suite is a set of test cases generated from one user story
type Suite struct {
	ID                 string     `json:"id"`
	UserStory          string     `json:"user_story"`
	AcceptanceCriteria string     `json:"acceptance_criteria,omitempty"`
	TestCases          []TestCase `json:"test_cases"`
	CreatedAt          time.Time  `json:"created_at"`
}

// GenerateRequest is the body of POST /api/v1/generate
type GenerateRequest struct {
	UserStory          string `json:"user_story" binding:"required"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
}

// GenerateResponse is returned by POST /api/v1/generate
type GenerateResponse struct {
	SuiteID   string     `json:"suite_id"`
	TestCases []TestCase `json:"test_cases"`
}
