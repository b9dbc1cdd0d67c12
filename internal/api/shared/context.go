package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"
)

// ContextKey is the type of request-context keys set by the API layer.
type ContextKey string

// Context keys for various values
const (
	// OwnerIDContextKey holds the owner ID taken from a validated bearer token.
	OwnerIDContextKey ContextKey = "ownerID"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SetOwnerID records the authenticated owner in the context.
func SetOwnerID(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, OwnerIDContextKey, ownerID)
}

// GetOwnerID returns the authenticated owner, if any.
func GetOwnerID(ctx context.Context) (int64, bool) {
	ownerID, ok := ctx.Value(OwnerIDContextKey).(int64)
	if !ok || ownerID <= 0 {
		return 0, false
	}
	return ownerID, true
}

// generateTraceID returns 32 random hex characters. If crypto/rand fails it
// falls back to a time-based ID rather than a static value.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	n, err := rand.Read(b)
	if err != nil || n != TraceIDLength {
		slog.Error("failed to generate secure random trace ID",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(b)
}

func generateFallbackTraceID() string {
	id := make([]byte, TraceIDLength)
	now := time.Now()
	binary.BigEndian.PutUint64(id[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint32(id[8:12], uint32(now.Nanosecond()))
	binary.BigEndian.PutUint32(id[12:16], uint32(now.Unix()))
	return hex.EncodeToString(id)
}
