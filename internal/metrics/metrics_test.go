package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsUsesOwnRegistry(t *testing.T) {
	// two instances must not collide on registration
	a := NewMetrics()
	b := NewMetrics()

	a.SubtaskFallbacks.Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(a.SubtaskFallbacks))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.SubtaskFallbacks))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/suites/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	for _, path := range []string{"/suites/a", "/suites/b", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/suites/:id", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.TicketsCreated.WithLabelValues("Sub-task").Inc()
	m.TicketFailures.WithLabelValues("validation").Add(2)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `testcase_generator_jira_tickets_created_total{issue_type="Sub-task"} 1`)
	assert.Contains(t, string(body), `testcase_generator_jira_ticket_failures_total{kind="validation"} 2`)
	assert.Contains(t, string(body), "go_goroutines")
}
