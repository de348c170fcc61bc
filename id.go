package dflow

import "github.com/google/uuid"

// IDGenerator generates unique identifiers. The default is backed by
// github.com/google/uuid.
type IDGenerator func() string

// DefaultIDGenerator is the package's default IDGenerator. Graph.Add and
// ToDot do not consult it: nodes are registered and drawn under their own
// names.
var DefaultIDGenerator IDGenerator = NewID

// NewID returns a new random UUID string.
func NewID() string {
	return uuid.NewString()
}
