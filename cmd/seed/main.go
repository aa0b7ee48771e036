package main

import (
	"context"
	"log"

	"recados-be/internal/config"
	"recados-be/internal/entity"
	"recados-be/internal/pkg/hashing"
	"recados-be/internal/repository/specification"
	"recados-be/internal/repository/unitofwork"
	"recados-be/pkg/database"

	"github.com/fatih/color"
	"golang.org/x/crypto/bcrypt"
)

var demoPersons = []struct {
	name     string
	email    string
	password string
	policies []entity.RoutePolicy
}{
	{"Alice Demo", "alice@recados.local", "alice123", []entity.RoutePolicy{
		entity.PolicyCreateNote, entity.PolicyFindAllNotes, entity.PolicyFindOneNote,
		entity.PolicyUpdateNote, entity.PolicyDeleteNote,
	}},
	{"Bob Demo", "bob@recados.local", "bob123", []entity.RoutePolicy{entity.PolicyUser}},
}

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.DSN(), false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	repo := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).PersonRepository()
	hasher := hashing.NewBcryptHasher(bcrypt.DefaultCost)

	color.Cyan("Seeding demo persons...")
	for _, d := range demoPersons {
		existing, err := repo.FindOne(ctx, specification.ByEmail{Email: d.email})
		if err != nil {
			color.Red("Failed to look up %s: %v", d.email, err)
			continue
		}
		if existing != nil {
			color.Yellow("Person '%s' already exists, skipping...", d.email)
			continue
		}

		hash, err := hasher.Hash(d.password)
		if err != nil {
			color.Red("Failed to hash password for %s: %v", d.email, err)
			continue
		}

		p := &entity.Person{
			Name:          d.name,
			Email:         d.email,
			PasswordHash:  hash,
			RoutePolicies: d.policies,
			Active:        true,
		}
		if err := repo.Create(ctx, p); err != nil {
			color.Red("Failed to create %s: %v", d.email, err)
			continue
		}
		color.Green("Created person #%d: %s <%s>", p.Id, p.Name, p.Email)
	}

	color.Cyan("Seeding completed!")
}
