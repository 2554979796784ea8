package exporter

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"testcase_generator/internal/metrics"
	"testcase_generator/internal/model"
	"testcase_generator/internal/notify"
	"testcase_generator/internal/service/jira"
)

var errMissingTitle = errors.New("test case title is required")

// Tracker creates tickets. *jira.Client implements it.
type Tracker interface {
	Available() bool
	CreateTestCase(ctx context.Context, req model.TicketRequest) (*model.Ticket, error)
}

// Exporter files test cases as tickets and reports the outcome
type Exporter struct {
	tracker  Tracker
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func New(tracker Tracker, notifier notify.Notifier, m *metrics.Metrics, log *zap.Logger) *Exporter {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Exporter{tracker: tracker, notifier: notifier, metrics: m, log: log}
}

// Available reports whether the tracker connection is up
func (e *Exporter) Available() bool {
	return e.tracker.Available()
}

// CreateTicket files a single ticket and records its outcome
func (e *Exporter) CreateTicket(ctx context.Context, req model.TicketRequest) (*model.Ticket, error) {
	ticket, err := e.tracker.CreateTestCase(ctx, req)
	e.record(ticket, err)
	if err != nil {
		e.log.Warn("failed to create ticket",
			zap.String("project", req.ProjectKey),
			zap.String("parent", req.ParentKey),
			zap.String("kind", string(jira.KindOf(err))),
			zap.Error(err))
		return nil, err
	}
	e.log.Info("created ticket",
		zap.String("key", ticket.Key),
		zap.String("issue_type", ticket.IssueType))
	return ticket, nil
}

// Export files every test case in order. Individual failures are collected in
// the report. When the tracker connection is unavailable nothing is sent, the
// remaining cases are reported failed, and jira.ErrConnectionUnavailable is
// returned along with the report.
func (e *Exporter) Export(ctx context.Context, req model.ExportRequest) (model.ExportReport, error) {
	report := model.ExportReport{
		ProjectKey: req.ProjectKey,
		ParentKey:  req.ParentKey,
		Created:    []model.ExportedTestCase{},
		Failed:     []model.FailedTestCase{},
	}

	var exportErr error
	for _, tc := range req.TestCases {
		if exportErr != nil {
			report.Failed = append(report.Failed, model.FailedTestCase{TestCaseID: tc.ID, Error: exportErr.Error()})
			continue
		}
		if strings.TrimSpace(tc.Title) == "" {
			report.Failed = append(report.Failed, model.FailedTestCase{TestCaseID: tc.ID, Error: errMissingTitle.Error()})
			continue
		}

		ticket, err := e.CreateTicket(ctx, TicketRequest(req.ProjectKey, req.ParentKey, tc))
		if err != nil {
			if errors.Is(err, jira.ErrConnectionUnavailable) || ctx.Err() != nil {
				exportErr = err
			}
			report.Failed = append(report.Failed, model.FailedTestCase{TestCaseID: tc.ID, Error: err.Error()})
			continue
		}
		report.Created = append(report.Created, model.ExportedTestCase{TestCaseID: tc.ID, Key: ticket.Key, URL: ticket.URL})
	}

	e.log.Info("export finished",
		zap.String("project", req.ProjectKey),
		zap.Int("created", len(report.Created)),
		zap.Int("failed", len(report.Failed)))

	if report.Total() > 0 {
		if err := e.notifier.NotifyExport(ctx, report); err != nil {
			e.log.Error("failed to send export notification", zap.Error(err))
		}
	}

	return report, exportErr
}

func (e *Exporter) record(ticket *model.Ticket, err error) {
	if e.metrics == nil {
		return
	}
	if err != nil {
		kind := string(jira.KindOf(err))
		if errors.Is(err, jira.ErrConnectionUnavailable) {
			kind = "unavailable"
		} else if kind == "" {
			kind = "unknown"
		}
		e.metrics.TicketFailures.WithLabelValues(kind).Inc()
		return
	}
	e.metrics.TicketsCreated.WithLabelValues(ticket.IssueType).Inc()
	if ticket.IssueType == jira.IssueTypeSubtaskNoHyphen {
		e.metrics.SubtaskFallbacks.Inc()
	}
}
