// Package observability provides structured logging and Prometheus metrics
// for the FieldLink client core.
//
// # Overview
//
// The session layer emits structured JSON logs through a slog-backed Logger
// and counts session transitions, credential refreshes, executor retries and
// vault operations through a Prometheus registry. The app shell decides where
// logs go and whether the metrics endpoint is exposed.
//
// # Usage Example
//
// Create a logger and metrics registry:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//
//	logger.WithField("principal_id", p.ID).Info("session established")
//	metrics.SessionTransitionsTotal.WithLabelValues("authenticated", "identity_provider").Inc()
//
// # Related Packages
//
//   - pkg/session: records transitions and refresh outcomes
//   - pkg/restexec: records request outcomes and 401 retries
//   - pkg/vault: records backend operations
package observability
