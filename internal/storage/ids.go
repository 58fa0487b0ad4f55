package storage

import "github.com/google/uuid"

// NewID returns a prefixed random identifier, e.g. HTL-3f0c...; unique without coordination.
func NewID(prefix string) string { return prefix + "-" + uuid.NewString() }
