package exporter

import (
	"fmt"
	"strings"

	"testcase_generator/internal/model"
)

// Summary is the ticket title for a test case
func Summary(tc model.TestCase) string {
	title := strings.TrimSpace(tc.Title)
	if tc.ID == "" {
		return title
	}
	return fmt.Sprintf("[%s] %s", tc.ID, title)
}

// Description renders a test case in Jira wiki markup
func Description(tc model.TestCase) string {
	var b strings.Builder
	if tc.Type != "" {
		fmt.Fprintf(&b, "*Type:* %s\n\n", tc.Type)
	}

	b.WriteString("h3. Steps\n")
	if len(tc.Steps) == 0 {
		b.WriteString("_No steps provided_\n")
	}
	for _, step := range tc.Steps {
		// a leading "#" would change the list nesting
		fmt.Fprintf(&b, "# %s\n", strings.TrimLeft(strings.TrimSpace(step), "#* "))
	}

	b.WriteString("\nh3. Expected Result\n")
	if exp := strings.TrimSpace(tc.ExpectedResult); exp != "" {
		b.WriteString(exp)
	} else {
		b.WriteString("_Not specified_")
	}
	return b.String()
}

// TicketRequest builds the tracker request for one test case
func TicketRequest(projectKey, parentKey string, tc model.TestCase) model.TicketRequest {
	return model.TicketRequest{
		ProjectKey:  projectKey,
		Summary:     Summary(tc),
		Description: Description(tc),
		ParentKey:   parentKey,
	}
}
