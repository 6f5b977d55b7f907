// Package eventlog defines the event envelope, the per-kind payload types,
// and the stream-naming discipline shared by every other package in this
// module. Nothing here performs I/O; pkg/store is the only package that
// talks to Postgres.
package eventlog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultCategory and DefaultVersion are used by callers that don't need a
// custom stream namespace (the common case: one category of agent, one
// schema version).
const (
	DefaultCategory = "agent"
	DefaultVersion  = "v0"
)

// StreamName builds a Message-DB-style stream identifier:
// "{category}:{version}-{threadID}". category must not contain ':' and
// version must not contain '-'; threadID must be a UUIDv4 string.
func StreamName(category, version, threadID string) (string, error) {
	if strings.Contains(category, ":") {
		return "", fmt.Errorf("eventlog: category %q must not contain ':'", category)
	}
	if strings.Contains(version, "-") {
		return "", fmt.Errorf("eventlog: version %q must not contain '-'", version)
	}
	if _, err := uuid.Parse(threadID); err != nil {
		return "", fmt.Errorf("eventlog: threadID %q is not a valid UUID: %w", threadID, err)
	}
	return fmt.Sprintf("%s:%s-%s", category, version, threadID), nil
}

// ParseStreamName is the inverse of StreamName. It returns an error for any
// string that does not round-trip through StreamName's grammar.
func ParseStreamName(stream string) (category, version, threadID string, err error) {
	colon := strings.Index(stream, ":")
	if colon < 0 {
		return "", "", "", fmt.Errorf("eventlog: stream %q has no ':' separator", stream)
	}
	category = stream[:colon]
	rest := stream[colon+1:]

	dash := strings.Index(rest, "-")
	if dash < 0 {
		return "", "", "", fmt.Errorf("eventlog: stream %q has no '-' separator after category", stream)
	}
	version = rest[:dash]
	threadID = rest[dash+1:]

	if strings.Contains(version, "-") {
		return "", "", "", fmt.Errorf("eventlog: stream %q has a version segment containing '-'", stream)
	}
	if _, perr := uuid.Parse(threadID); perr != nil {
		return "", "", "", fmt.Errorf("eventlog: stream %q has an invalid thread id: %w", stream, perr)
	}
	return category, version, threadID, nil
}

// NewThreadID generates a fresh UUIDv4 thread identifier.
func NewThreadID() string {
	return uuid.NewString()
}
