// Package testutil provides a throwaway SQLite database migrated with the
// production models, so repository and service tests run without postgres.
package testutil

import (
	"path/filepath"
	"testing"

	"recados-be/internal/entity"
	"recados-be/internal/repository/unitofwork"
	"recados-be/pkg/database"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "recados.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func NewTestFactory(t *testing.T) (unitofwork.RepositoryFactory, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return unitofwork.NewRepositoryFactory(db), db
}

// SeedPerson stores an active person whose password is "secret".
func SeedPerson(t *testing.T, factory unitofwork.RepositoryFactory, name, email string) *entity.Person {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	p := &entity.Person{
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		RoutePolicies: []entity.RoutePolicy{entity.PolicyUser},
		Active:        true,
	}
	uow := factory.NewUnitOfWork(t.Context())
	require.NoError(t, uow.PersonRepository().Create(t.Context(), p))
	return p
}
