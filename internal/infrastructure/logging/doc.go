// Package logging provides structured logging for homerpc.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("listening", "address", cfg.Server.Address)
//	logger.Warn("request exchange failed", "error", err)
//
// # Security
//
// Never log secrets, tokens, passwords, or API keys.
// Log only a prefix of sensitive identifiers:
//
//	logger.Info("mqtt connected", "user_prefix", user[:3]+"...")
package logging
