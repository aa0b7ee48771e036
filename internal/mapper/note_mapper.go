package mapper

import (
	"recados-be/internal/entity"
	"recados-be/internal/model"
)

type NoteMapper struct {
	persons *PersonMapper
}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{persons: NewPersonMapper()}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:          n.Id,
		Text:        n.Text,
		SenderId:    n.SenderId,
		Sender:      m.persons.ToEntity(n.Sender),
		RecipientId: n.RecipientId,
		Recipient:   m.persons.ToEntity(n.Recipient),
		Read:        n.Read,
		Date:        n.Date,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// ToModel drops the participant structs; only the foreign keys are written.
func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	return &model.Note{
		Id:          n.Id,
		Text:        n.Text,
		SenderId:    n.SenderId,
		RecipientId: n.RecipientId,
		Read:        n.Read,
		Date:        n.Date,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
