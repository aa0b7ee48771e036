package mapper

import (
	"recados-be/internal/entity"
	"recados-be/internal/model"

	"gorm.io/datatypes"
)

type PersonMapper struct{}

func NewPersonMapper() *PersonMapper {
	return &PersonMapper{}
}

func (m *PersonMapper) ToEntity(p *model.Person) *entity.Person {
	if p == nil {
		return nil
	}

	policies := make([]entity.RoutePolicy, len(p.RoutePolicies))
	for i, rp := range p.RoutePolicies {
		policies[i] = entity.RoutePolicy(rp)
	}

	return &entity.Person{
		Id:            p.Id,
		Name:          p.Name,
		Email:         p.Email,
		PasswordHash:  p.PasswordHash,
		RoutePolicies: policies,
		Active:        p.Active,
		Picture:       p.Picture,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *PersonMapper) ToModel(p *entity.Person) *model.Person {
	if p == nil {
		return nil
	}

	policies := make(datatypes.JSONSlice[string], len(p.RoutePolicies))
	for i, rp := range p.RoutePolicies {
		policies[i] = string(rp)
	}

	return &model.Person{
		Id:            p.Id,
		Name:          p.Name,
		Email:         p.Email,
		PasswordHash:  p.PasswordHash,
		RoutePolicies: policies,
		Active:        p.Active,
		Picture:       p.Picture,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *PersonMapper) ToEntities(persons []*model.Person) []*entity.Person {
	entities := make([]*entity.Person, len(persons))
	for i, p := range persons {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
