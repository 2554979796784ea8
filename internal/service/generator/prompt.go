package generator

import "strings"

const systemPrompt = `You are a senior QA engineer. Write manual test cases for the user story you are given.

Cover the happy path and the acceptance criteria with Positive test cases, and invalid input,
boundaries and error handling with Negative test cases.

Respond with JSON only, in this shape:
{"test_cases":[{"id":"TC-001","title":"...","type":"Positive","steps":["..."],"expected_result":"..."}]}

Rules:
- "type" is either "Positive" or "Negative".
- "steps" are short imperative sentences, in order.
- Number ids sequentially starting at TC-001.`

func userPrompt(userStory, acceptanceCriteria string) string {
	var b strings.Builder
	b.WriteString("User story:\n")
	b.WriteString(userStory)
	if ac := strings.TrimSpace(acceptanceCriteria); ac != "" {
		b.WriteString("\n\nAcceptance criteria:\n")
		b.WriteString(ac)
	}
	return b.String()
}
