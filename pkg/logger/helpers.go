package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// LogRequest logs HTTP request information
func LogRequest(method, url string, statusCode int, duration float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration,
	}

	switch {
	case statusCode >= 500:
		GetLogger().ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		GetLogger().WarnWithFields("HTTP request client error", fields)
	default:
		GetLogger().InfoWithFields("HTTP request completed", fields)
	}
}

// LogSearch logs the outcome of one photo search
func LogSearch(query, source string, count int, err error) {
	LogSearchTo(GetLogger(), query, source, count, err)
}

// LogSearchTo logs the outcome of one photo search on l
func LogSearchTo(log Logger, query, source string, count int, err error) {
	l := log.WithFields(map[string]interface{}{
		"query":  query,
		"source": source,
		"count":  count,
	})
	if err != nil {
		l.WithError(err).Error("Search failed")
		return
	}
	if count == 0 {
		l.Warn("Search returned no photos")
		return
	}
	l.Info("Search completed")
}

// LogDownload logs HD download operations
func LogDownload(photoID, path string, err error) {
	l := GetLogger().WithFields(map[string]interface{}{
		"photo_id": photoID,
		"path":     path,
	})
	if err != nil {
		l.WithError(err).Error("Download failed")
		return
	}
	l.Info("Download completed")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	GetLogger().WithField("component", component).InfoWithFields("Component starting", config)
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
