// Package instrument wires OpenTelemetry tracing, metrics and log export,
// and installs the JSON slog logger used across the service.
package instrument
