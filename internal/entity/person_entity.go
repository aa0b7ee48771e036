package entity

import (
	"time"
)

type RoutePolicy string

const (
	PolicyCreateNote   RoutePolicy = "createNote"
	PolicyFindAllNotes RoutePolicy = "findAllNotes"
	PolicyFindOneNote  RoutePolicy = "findOneNote"
	PolicyUpdateNote   RoutePolicy = "updateNote"
	PolicyDeleteNote   RoutePolicy = "deleteNote"
	PolicyCreatePerson RoutePolicy = "createPerson"
	PolicyUser         RoutePolicy = "user"
)

type Person struct {
	Id            int64
	Name          string
	Email         string
	PasswordHash  string
	RoutePolicies []RoutePolicy
	Active        bool
	Picture       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

