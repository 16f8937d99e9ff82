package memory

import (
	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
)

// Memory is an in-memory Repository for development and tests
type Memory struct {
	form       *formRepository
	response   *responseRepository
	entity     *entityRepository
	publicLink *publicLinkRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an empty in-memory repository
func New() *Memory {
	return &Memory{
		form:       newFormRepository(),
		response:   newResponseRepository(),
		entity:     newEntityRepository(),
		publicLink: newPublicLinkRepository(),
	}
}

func (m *Memory) Form() interfaces.FormRepository {
	return m.form
}

func (m *Memory) Response() interfaces.ResponseRepository {
	return m.response
}

func (m *Memory) Entity() interfaces.EntityRepository {
	return m.entity
}

func (m *Memory) PublicLink() interfaces.PublicLinkRepository {
	return m.publicLink
}

func (m *Memory) Close() error {
	return nil
}
