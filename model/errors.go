package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMention is returned for mentions with missing or contradictory fields
	ErrInvalidMention = errors.New("invalid mention")
	// ErrUnknownEntity is returned for entity handles not owned by a store
	ErrUnknownEntity = errors.New("unknown entity")
)

// ErrInvalidConfig is returned for resolver configurations that cannot be used
var ErrInvalidConfig = errors.New("invalid resolver config")

func errConfig(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
