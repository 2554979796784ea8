package logger

import (
	"bytes"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sizeLimit = 240 * 1024 // CloudWatch log size limit
	// request log type
	requestType = "request"
	truncated   = "TRUNCATED..."
	redacted    = "REDACTED"
)

var sensitiveHeaders = []string{"Authorization", "Cookie", "X-Api-Key"}

// logRecord for Request Log
type logRecord struct {
	RequestID       string
	Timestamp       time.Time
	Duration        time.Duration
	HTTPStatusCode  int
	ErrorStackTrace string
	HTTPMethod      string
	RequestPath     string
	RequestQuery    string
	RequestBody     string
	ResponseBody    string
	Headers         http.Header
}

func (record *logRecord) fields() []zap.Field {
	return []zap.Field{
		zap.String("type", requestType),
		zap.String("request_id", record.RequestID),
		zap.Time("timestamp", record.Timestamp),
		zap.Int64("duration_ms", record.Duration.Milliseconds()),
		zap.Int("status", record.HTTPStatusCode),
		zap.String("method", record.HTTPMethod),
		zap.String("path", record.RequestPath),
		zap.String("query", record.RequestQuery),
		zap.String("request_body", record.RequestBody),
		zap.String("response_body", record.ResponseBody),
		zap.Any("headers", record.Headers),
		zap.String("stack", record.ErrorStackTrace),
	}
}

// size approximates the encoded size of the record
func (record *logRecord) size() int {
	n := len(record.RequestBody) + len(record.ResponseBody) + len(record.ErrorStackTrace) +
		len(record.RequestPath) + len(record.RequestQuery)
	for k, vs := range record.Headers {
		n += len(k)
		for _, v := range vs {
			n += len(v)
		}
	}
	return n
}

// GinLogMiddleware writes one structured log line per request, even when the handler panics
func GinLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var record *logRecord
		// overwrite the gin.Context.Writer to log response body
		respLogWriter := &respLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = respLogWriter

		defer func() {
			logTruncate(record)
			// finally print request log even panic
			if record.HTTPStatusCode >= http.StatusInternalServerError {
				log.Error("request", record.fields()...)
			} else {
				log.Info("request", record.fields()...)
			}
		}()

		defer func() {
			if r := recover(); r != nil {
				record.HTTPStatusCode = http.StatusInternalServerError
				record.ErrorStackTrace = string(debug.Stack())
				record.Duration = time.Since(record.Timestamp)
				// throw the panic to the later middlewares
				panic(r)
			}
		}()

		record = initLogRecord(c)

		c.Next()

		// if response normally, fill in remain fields
		record.HTTPStatusCode = c.Writer.Status()
		record.Duration = time.Since(record.Timestamp)
		record.ResponseBody = respLogWriter.body.String()
	}
}

func logTruncate(record *logRecord) {
	if record.size() < sizeLimit {
		return
	}
	// truncate response body first, then request body, then the stack trace
	record.ResponseBody = truncated
	if record.size() < sizeLimit {
		return
	}
	record.RequestBody = truncated
	if record.size() < sizeLimit {
		return
	}
	record.ErrorStackTrace = truncated
}

type respLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w respLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w respLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func initLogRecord(c *gin.Context) *logRecord {
	var requestBody string
	if c.Request.Body != nil {
		requestBodyBytes, err := io.ReadAll(c.Request.Body)
		if err == nil {
			requestBody = string(requestBodyBytes)
		}
		// reattach request body for later use
		c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))
	}

	return &logRecord{
		RequestID:    requestID(c),
		Timestamp:    time.Now(),
		HTTPMethod:   c.Request.Method,
		RequestPath:  c.Request.URL.Path,
		RequestQuery: c.Request.URL.Query().Encode(),
		RequestBody:  requestBody,
		Headers:      redactHeaders(c.Request.Header),
	}
}

// requestID prefers the Lambda AwsRequestID and falls back to the X-Request-ID header
func requestID(c *gin.Context) string {
	if lc, ok := lambdacontext.FromContext(c.Request.Context()); ok {
		return lc.AwsRequestID
	}
	return c.GetHeader("X-Request-ID")
}

func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, key := range sensitiveHeaders {
		if out.Get(key) != "" {
			out.Set(key, redacted)
		}
	}
	return out
}
