// Package config provides centralized timeout constants for the application.
//
// Slack expects a slash command or interaction to be acknowledged within
// three seconds. The HTTP handlers therefore only parse and acknowledge;
// translation, posting and persistence run afterwards under FlowTimeout.
package config

import "time"

// HTTP server timeouts
const (
	// HTTPRead is the server read timeout. Slack payloads are small forms.
	HTTPRead = 10 * time.Second

	// HTTPWrite is the server write timeout. Handlers answer before any downstream call.
	HTTPWrite = 15 * time.Second

	// HTTPIdle is the idle timeout for keep-alive connections.
	HTTPIdle = 120 * time.Second

	// ReadinessCheck bounds the store ping behind /readyz.
	ReadinessCheck = 3 * time.Second
)

// Flow timeouts
const (
	// FlowProcessing bounds one submit or vote flow after the acknowledgment.
	FlowProcessing = 60 * time.Second

	// TranslateRequest bounds a single call to the translation backend.
	TranslateRequest = 15 * time.Second
)

// Database settings
const (
	// DatabaseBusyTimeout is the SQLite busy_timeout used while waiting for the write lock.
	DatabaseBusyTimeout = 30 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of pooled connections.
	DatabaseConnMaxLifetime = time.Hour
)

// GracefulShutdown is the default time allowed for in-flight flows to finish.
const GracefulShutdown = 30 * time.Second
