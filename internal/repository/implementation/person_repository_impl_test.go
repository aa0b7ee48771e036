package implementation_test

import (
	"context"
	"errors"
	"testing"

	"recados-be/internal/entity"
	"recados-be/internal/repository/specification"
	"recados-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPersonRepository_CreateAndFind(t *testing.T) {
	factory, _ := testutil.NewTestFactory(t)
	ctx := context.Background()

	alice := testutil.SeedPerson(t, factory, "Alice", "alice@example.com")
	assert.NotZero(t, alice.Id)

	repo := factory.NewUnitOfWork(ctx).PersonRepository()

	byEmail, err := repo.FindOne(ctx, specification.ByEmail{Email: "alice@example.com"})
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, alice.Id, byEmail.Id)
	assert.Equal(t, []entity.RoutePolicy{entity.PolicyUser}, byEmail.RoutePolicies)
	assert.True(t, byEmail.Active)

	missing, err := repo.FindById(ctx, alice.Id+100)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPersonRepository_DuplicateEmail(t *testing.T) {
	factory, _ := testutil.NewTestFactory(t)
	ctx := context.Background()

	testutil.SeedPerson(t, factory, "Alice", "alice@example.com")

	err := factory.NewUnitOfWork(ctx).PersonRepository().Create(ctx, &entity.Person{
		Name:         "Other Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Active:       true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	factory, _ := testutil.NewTestFactory(t)
	ctx := context.Background()

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.PersonRepository().Create(ctx, &entity.Person{
		Name:         "Ghost",
		Email:        "ghost@example.com",
		PasswordHash: "x",
		Active:       true,
	}))
	require.NoError(t, uow.Rollback())
	assert.NoError(t, uow.Rollback(), "second rollback is a no-op")

	found, err := factory.NewUnitOfWork(ctx).PersonRepository().
		FindOne(ctx, specification.ByEmail{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestPersonRepository_UpdateAfterDeleteDoesNotRecreate(t *testing.T) {
	factory, _ := testutil.NewTestFactory(t)
	ctx := context.Background()

	alice := testutil.SeedPerson(t, factory, "Alice", "alice@example.com")
	repo := factory.NewUnitOfWork(ctx).PersonRepository()

	loaded, err := repo.FindById(ctx, alice.Id)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, alice.Id))

	loaded.Picture = "/pictures/1.png"
	err = repo.Update(ctx, loaded)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	gone, err := repo.FindById(ctx, alice.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPersonRepository_UpdateWritesMutableFields(t *testing.T) {
	factory, _ := testutil.NewTestFactory(t)
	ctx := context.Background()

	alice := testutil.SeedPerson(t, factory, "Alice", "alice@example.com")
	repo := factory.NewUnitOfWork(ctx).PersonRepository()

	alice.Name = "Alicia"
	alice.Active = false
	require.NoError(t, repo.Update(ctx, alice))

	stored, err := repo.FindById(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stored.Name)
	assert.False(t, stored.Active)
	assert.Equal(t, "alice@example.com", stored.Email)
}
