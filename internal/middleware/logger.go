package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// sensitiveFields contains patterns for fields that should be redacted
var sensitiveFields = []string{
	"password",
	"token",
	"api_key",
	"apikey",
	"api-key",
	"secret",
	"authorization",
	"credential",
	"session",
	"cookie",
	"credit_card",
	"customer_cf",
}

// sensitiveHeaderPatterns contains regex patterns for sensitive headers
var sensitiveHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)authorization`),
	regexp.MustCompile(`(?i)api[-_]?key`),
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)secret`),
	regexp.MustCompile(`(?i)password`),
	regexp.MustCompile(`(?i)cookie`),
	regexp.MustCompile(`(?i)session`),
}

const (
	redacted        = "[REDACTED]"
	maxLoggedBody   = 1000
	omittedUpload   = "[multipart body omitted]"
	multipartPrefix = "multipart/"
)

// responseWriter is a custom response writer to capture response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RequestResponseLogger creates a middleware that logs every request and
// response through logger. Multipart bodies are not buffered; receipts can
// be several megabytes.
func RequestResponseLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		var requestBody []byte
		multipart := strings.HasPrefix(c.ContentType(), multipartPrefix)
		if c.Request.Body != nil && !multipart {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		responseBodyWriter := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		c.Writer = responseBodyWriter

		c.Next()

		fields := buildLogFields(c, requestBody, responseBodyWriter.body.Bytes(), time.Since(startTime))
		if multipart {
			fields["request_body"] = omittedUpload
		}

		entry := logger.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// buildLogFields constructs the structured fields of one request log line
func buildLogFields(c *gin.Context, requestBody, responseBody []byte, latency time.Duration) logrus.Fields {
	fields := logrus.Fields{
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"status_code": c.Writer.Status(),
		"latency":     latency.String(),
		"client_ip":   c.ClientIP(),
		"user_agent":  c.Request.UserAgent(),
		"headers":     redactHeaders(c.Request.Header),
	}

	if query := c.Request.URL.Query(); len(query) > 0 {
		fields["query_params"] = redactQuery(query)
	}

	if requestID := c.GetString(RequestIDKey); requestID != "" {
		fields["request_id"] = requestID
	}

	if len(requestBody) > 0 {
		fields["request_body"] = parseAndRedactBody(requestBody)
	}

	if len(responseBody) > 0 {
		fields["response_body"] = parseAndRedactBody(responseBody)
	}

	if len(c.Errors) > 0 {
		fields["error"] = c.Errors.String()
	}

	return fields
}

// redactHeaders redacts sensitive headers
func redactHeaders(headers map[string][]string) map[string]string {
	out := make(map[string]string)
	for key, values := range headers {
		if isSensitiveHeader(key) {
			out[key] = redacted
		} else {
			out[key] = strings.Join(values, ", ")
		}
	}
	return out
}

// redactQuery masks sensitive query values. The search filters cf and cc
// carry the same data as customer_cf and credit_card.
func redactQuery(query map[string][]string) map[string][]string {
	out := make(map[string][]string, len(query))
	for key, values := range query {
		if key == "cf" || key == "cc" || isSensitiveField(key) {
			out[key] = []string{redacted}
		} else {
			out[key] = values
		}
	}
	return out
}

// isSensitiveHeader checks if a header name is sensitive
func isSensitiveHeader(headerName string) bool {
	for _, pattern := range sensitiveHeaderPatterns {
		if pattern.MatchString(headerName) {
			return true
		}
	}
	return false
}

// parseAndRedactBody parses JSON body and redacts sensitive fields
func parseAndRedactBody(body []byte) any {
	var jsonBody any
	if err := json.Unmarshal(body, &jsonBody); err != nil {
		bodyStr := string(body)
		if len(bodyStr) > maxLoggedBody {
			bodyStr = bodyStr[:maxLoggedBody] + "... (truncated)"
		}
		return bodyStr
	}

	redactSensitiveFields(jsonBody)
	return jsonBody
}

// redactSensitiveFields recursively redacts sensitive fields in JSON data
func redactSensitiveFields(data any) {
	switch v := data.(type) {
	case map[string]any:
		for key, value := range v {
			if isSensitiveField(key) {
				v[key] = redacted
			} else {
				redactSensitiveFields(value)
			}
		}
	case []any:
		for _, item := range v {
			redactSensitiveFields(item)
		}
	}
}

// isSensitiveField checks if a field name is sensitive
func isSensitiveField(fieldName string) bool {
	lowerField := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(lowerField, sensitive) {
			return true
		}
	}
	return false
}
