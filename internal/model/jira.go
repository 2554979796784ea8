package model

// TicketRequest describes one test case ticket to create in Jira
type TicketRequest struct {
	ProjectKey  string `json:"project_key" binding:"required"`
	Summary     string `json:"summary" binding:"required"`
	Description string `json:"description"`
	ParentKey   string `json:"parent_key,omitempty"`
}

// Ticket is a ticket the tracker accepted
type Ticket struct {
	Key string
	URL string
	// IssueType is the issue type name the tracker accepted (Task, Sub-task or Subtask)
	IssueType string
	// ParentKey is set only for sub-tasks
	ParentKey string
}

// TicketResult is the wire form of a ticket creation outcome.
// Exactly one of Key/URL or Error is populated.
type TicketResult struct {
	Key   string `json:"key,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewTicketResult converts the outcome of a ticket creation into its wire form
func NewTicketResult(ticket *Ticket, err error) TicketResult {
	if err != nil {
		return TicketResult{Error: err.Error()}
	}
	if ticket == nil {
		return TicketResult{Error: "no ticket returned"}
	}
	return TicketResult{Key: ticket.Key, URL: ticket.URL}
}

// Succeeded reports whether the result carries a ticket
func (r TicketResult) Succeeded() bool {
	return r.Error == "" && r.Key != ""
}
