package id

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Generator creates opaque IDs used to correlate refresh runs in logs.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "generate uuid")
	}
	return v.String(), nil
}

// Static always returns the same ID.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}
