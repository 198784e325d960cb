package persistence

import (
	"errors"
	"fmt"
	"strings"
)

// PersistenceType selects a storage backend.
type PersistenceType string

const (
	PersistenceTypeMemory PersistenceType = "memory"
	PersistenceTypeBadger PersistenceType = "badger"
	PersistenceTypeRedis  PersistenceType = "redis"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("persistence layer is closed")

// SupportedTypes lists the accepted backend names.
func SupportedTypes() []string {
	return []string{
		string(PersistenceTypeMemory),
		string(PersistenceTypeBadger),
		string(PersistenceTypeRedis),
	}
}

// ParsePersistenceType maps a case-insensitive backend name to a PersistenceType.
func ParsePersistenceType(s string) (PersistenceType, error) {
	switch PersistenceType(strings.ToLower(strings.TrimSpace(s))) {
	case PersistenceTypeMemory:
		return PersistenceTypeMemory, nil
	case PersistenceTypeBadger:
		return PersistenceTypeBadger, nil
	case PersistenceTypeRedis:
		return PersistenceTypeRedis, nil
	}
	return "", fmt.Errorf("unsupported persistence type %q (supported: %s)", s, strings.Join(SupportedTypes(), ", "))
}
