package logging

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// HTTPLogger logs resty requests and responses at debug level
type HTTPLogger struct {
	logger      *Logger
	maxBodySize int
}

// NewHTTPLogger creates a new HTTP logger
func NewHTTPLogger(logger *Logger) *HTTPLogger {
	return &HTTPLogger{
		logger:      logger,
		maxBodySize: 10000, // Default 10KB max body logging
	}
}

// SetMaxBodySize sets the maximum body size to log (in bytes)
func (h *HTTPLogger) SetMaxBodySize(size int) {
	h.maxBodySize = size
}

// Attach registers request, response and error hooks on client.
// Nothing is registered when debug logging is disabled.
func (h *HTTPLogger) Attach(client *resty.Client) *resty.Client {
	if !h.logger.Enabled(LevelDebug) {
		return client
	}
	client.OnBeforeRequest(h.logRequest)
	client.OnAfterResponse(h.logResponse)
	client.OnError(h.logError)
	return client
}

func (h *HTTPLogger) logRequest(_ *resty.Client, r *resty.Request) error {
	fields := Fields{
		"method":  r.Method,
		"url":     r.URL,
		"headers": redactHeaders(r.Header),
	}

	if r.Body != nil {
		if data, err := json.Marshal(r.Body); err == nil {
			fields["body"] = h.bodyField(data, true)
			fields["body_size"] = len(data)
		}
	}

	h.logger.Debug("HTTP Request", fields)
	return nil
}

func (h *HTTPLogger) logResponse(_ *resty.Client, resp *resty.Response) error {
	fields := Fields{
		"status":      resp.StatusCode(),
		"status_text": resp.Status(),
		"duration_ms": resp.Time().Milliseconds(),
	}

	if body := resp.Body(); len(body) > 0 {
		fields["body"] = h.bodyField(body, false)
		fields["body_size"] = len(body)
	}

	h.logger.Debug("HTTP Response", fields)
	return nil
}

func (h *HTTPLogger) logError(r *resty.Request, err error) {
	h.logger.Error("HTTP Error", err, Fields{
		"method": r.Method,
		"url":    r.URL,
	})
}

// bodyField returns parsed JSON when possible so entries nest cleanly
func (h *HTTPLogger) bodyField(body []byte, redact bool) interface{} {
	if len(body) <= h.maxBodySize && json.Valid(body) {
		var parsed interface{}
		if err := json.Unmarshal(body, &parsed); err == nil {
			if redact {
				return redactSensitiveFields(parsed)
			}
			return parsed
		}
	}
	return truncateBody(body, h.maxBodySize)
}

// Helper functions

func redactHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for k, v := range header {
		if isSensitiveHeader(k) {
			headers[k] = "[REDACTED]"
		} else if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}

// isSensitiveHeader checks if a header should be redacted
func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "api-key", "x-api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}

// truncateBody truncates body if too large
func truncateBody(body []byte, maxSize int) string {
	if len(body) <= maxSize {
		return string(body)
	}
	return string(body[:maxSize]) + "...[truncated]"
}

// sensitiveKeys are matched exactly; "max_tokens" must survive
var sensitiveKeys = map[string]bool{
	"api_key": true, "apikey": true, "api-key": true,
	"password": true, "secret": true, "token": true,
	"access_token": true, "authorization": true, "auth": true,
}

// redactSensitiveFields redacts sensitive fields in parsed JSON
func redactSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			if sensitiveKeys[strings.ToLower(k)] {
				result[k] = "[REDACTED]"
			} else {
				result[k] = redactSensitiveFields(val)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = redactSensitiveFields(item)
		}
		return result
	default:
		return data
	}
}
