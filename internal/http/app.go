// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"ava_assistant/platform/config"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Metrics is the Prometheus registry served at /metrics.
	Metrics *metrics.Registry
	// Modules contains all HTTP-facing modules.
	Modules []Module
}
