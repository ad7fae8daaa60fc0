package crypto

import "github.com/google/uuid"

// IDGenerator produces the opaque identifiers used for user ids and token
// jti claims. An interface so tests can pin ids deterministically.
type IDGenerator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	return uuid.NewString(), nil
}
