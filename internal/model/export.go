package model

// ExportRequest is the body of POST /api/v1/export-to-jira
type ExportRequest struct {
	ProjectKey string     `json:"project_key" binding:"required"`
	ParentKey  string     `json:"parent_key,omitempty"`
	TestCases  []TestCase `json:"test_cases" binding:"required,min=1"`
}

// ExportedTestCase links a test case to the ticket created for it
type ExportedTestCase struct {
	TestCaseID string `json:"test_case_id"`
	Key        string `json:"key"`
	URL        string `json:"url"`
}

// FailedTestCase records why a test case could not be filed
type FailedTestCase struct {
	TestCaseID string `json:"test_case_id"`
	Error      string `json:"error"`
}

// ExportReport summarises one export run
type ExportReport struct {
	ProjectKey string             `json:"project_key"`
	ParentKey  string             `json:"parent_key,omitempty"`
	Created    []ExportedTestCase `json:"created"`
	Failed     []FailedTestCase   `json:"failed"`
}

// Total returns the number of test cases the export handled
func (r ExportReport) Total() int {
	return len(r.Created) + len(r.Failed)
}
