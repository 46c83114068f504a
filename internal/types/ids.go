package types

import (
	"github.com/google/uuid"
)

// RunID represents a UUIDv7 identifier for one evaluation pass.
// String alias enables type safety while maintaining JSON string
// serialization. UUIDv7 time-ordering keeps runs sortable by creation.
type RunID string

// NewRunID generates a UUIDv7 run identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRunID() RunID {
	return RunID(uuid.Must(uuid.NewV7()).String())
}
