// internal/logging/context.go
package logging

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
//
// Every run carries a run ID, and each worker scopes its context to the
// repository it is processing, so log lines can be grouped per run and per
// repository without threading fields through every call site.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if runID := RunIDFromContext(ctx); runID != "" {
		fields = append(fields, zap.String("run.id", runID))
	}

	if repo := RepositoryFromContext(ctx); repo != "" {
		fields = append(fields, zap.String("repo", repo))
	}

	return fields
}

// Context key types
type runCtxKey struct{}
type repoCtxKey struct{}

const maxRunIDLen = 64

// runIDPattern allows alphanumeric, hyphen, underscore (covers UUIDs).
var runIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(runCtxKey{}).(string); ok {
		return r
	}
	return ""
}

// WithRunID adds a run ID to context.
// Panics if runID is empty or contains invalid characters; run IDs are
// generated internally, so a bad one is a programming error.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		panic("logging: run ID cannot be empty")
	}
	if len(runID) > maxRunIDLen {
		panic(fmt.Sprintf("logging: run ID exceeds max length %d", maxRunIDLen))
	}
	if !runIDPattern.MatchString(runID) {
		panic(fmt.Sprintf("logging: run ID contains invalid characters: %q", runID))
	}
	return context.WithValue(ctx, runCtxKey{}, runID)
}

// RepositoryFromContext extracts the repository name from context.
func RepositoryFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(repoCtxKey{}).(string); ok {
		return r
	}
	return ""
}

// WithRepository adds a repository name to context. Repository names come
// from directory listings and are display values; anything non-empty is
// accepted as-is.
func WithRepository(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, repoCtxKey{}, name)
}

// loggerCtxKey is the context key for Logger.
type loggerCtxKey struct{}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a default nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{zap: zap.NewNop(), config: NewDefaultConfig()}
}
