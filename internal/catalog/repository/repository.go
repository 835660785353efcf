package repository

import (
	"errors"

	"github.com/matforge/catalog/internal/shared/postgrest"
)

// ErrNotFound marks a row that does not exist behind the gateway.
var ErrNotFound = errors.New("record not found")

// Repositories is the repository registry. Every repository talks to the
// data gateway; there is no direct database access anywhere in the service.
type Repositories struct {
	Noun           *NounRepository
	Class          *ClassRepository
	Material       *MaterialRepository
	Search         *SearchRepository
	ClassAttribute *ClassAttributeRepository
}

// NewRepositories wires all repositories to a shared gateway client.
func NewRepositories(gw *postgrest.Client) *Repositories {
	return &Repositories{
		Noun:           NewNounRepository(gw),
		Class:          NewClassRepository(gw),
		Material:       NewMaterialRepository(gw),
		Search:         NewSearchRepository(gw),
		ClassAttribute: NewClassAttributeRepository(gw),
	}
}
