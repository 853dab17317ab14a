package id

import "github.com/google/uuid"

// New returns a random identifier suitable for handle URLs.
func New() string {
	return uuid.NewString()
}
