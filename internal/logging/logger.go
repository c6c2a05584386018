// Package logging is the structured-logging seam for the payroll server.
// Components depend on the Logger interface so the slog backing can be
// swapped without touching call sites.
package logging

import "context"

// Logger is the interface the server components log through. The
// variadic args are key-value pairs:
//
//	logger.Error(ctx, "recording failed login", "error", err, "identity_id", id)
//
// The surface is deliberately small: the server emits informational
// startup/shutdown lines and error lines, nothing else. Secrets
// (passwords, keys, decrypted field values) must never appear in args.
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that stamps the given key-value
	// pairs onto every record.
	With(args ...any) Logger
}
