package uid

import "github.com/google/uuid"

// UUID generates time ordered UUIDs, used as request correlation IDs.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a v7 UUID, or a random v4 one if the v7 generator fails.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
