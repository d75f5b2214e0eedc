package domain

import (
	"fmt"
	"strings"
)

// Status classifies one probe outcome. StatusUnknown is derived-only: it is
// never written to the store, only reported for services with no records.
type Status string

const (
	StatusOnline   Status = "online"
	StatusOffline  Status = "offline"
	StatusDegraded Status = "degraded"
	StatusChecking Status = "checking"
	StatusUnknown  Status = "unknown"
)

// ParseStatus normalizes a raw status string read from the store.
// Unknown is rejected here because it must never be persisted.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusOnline, StatusOffline, StatusDegraded, StatusChecking:
		return s, nil
	default:
		return "", fmt.Errorf("unknown check status %q", raw)
	}
}

// Persistable reports whether s may be written as a CheckRecord status.
func (s Status) Persistable() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusDegraded, StatusChecking:
		return true
	}
	return false
}
