package domain

import (
	"fmt"
	"strings"
	"time"
)

type ServiceID string

// ServiceType is the probe kind for a registry entry. Only http probes are
// implemented; ssh and ping are accepted and recorded as placeholders.
type ServiceType string

const (
	TypeHTTP ServiceType = "http"
	TypeSSH  ServiceType = "ssh"
	TypePing ServiceType = "ping"
)

// ParseServiceType normalizes a raw type string from the registry.
func ParseServiceType(raw string) (ServiceType, error) {
	switch t := ServiceType(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeHTTP, TypeSSH, TypePing:
		return t, nil
	default:
		return "", fmt.Errorf("unknown service type %q", raw)
	}
}

// Service is one registry entry. The registry is managed externally;
// the engine only reads it.
type Service struct {
	ID    ServiceID   `json:"id"`
	Name  string      `json:"name"`
	Type  ServiceType `json:"type"`
	URL   string      `json:"url"`
	Group string      `json:"group"`
}

// CheckRecord is one immutable probe outcome. Records are append-only;
// retention/pruning is an external concern.
type CheckRecord struct {
	ServiceID      ServiceID `json:"service_id"`
	Status         Status    `json:"status"`
	ResponseTimeMS *int64    `json:"response_time_ms"` // nil when no response was received
	ErrorMessage   string    `json:"error_message,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}
