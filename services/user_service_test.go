package services

import (
	"testing"

	"pubquiz/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAppliesDefaultsAndNormalizesEmail(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Create(&CreateUserRequest{
		Email:       "  Ada@Example.COM ",
		DisplayName: " Ada ",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.Equal(t, models.RolePlayer, user.Role)
	assert.Equal(t, models.LanguageDE, user.Language)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Create(&CreateUserRequest{Email: "ada@example.com", DisplayName: "Ada"})
	require.NoError(t, err)

	_, err = svc.Create(&CreateUserRequest{Email: "ADA@example.com", DisplayName: "Imposter"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := seedUser(t, db, "ada@example.com")

	updated, err := svc.Update(user.ID, &UpdateUserRequest{
		DisplayName: "Countess",
		Role:        models.RoleAdmin,
		Language:    models.LanguageFR,
	})
	require.NoError(t, err)
	assert.Equal(t, "Countess", updated.DisplayName)
	assert.True(t, updated.IsAdmin())

	require.NoError(t, svc.Delete(user.ID))
	assert.ErrorIs(t, svc.Delete(user.ID), ErrUserNotFound)

	_, err = svc.FindByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindByEmailNormalizes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	seedUser(t, db, "ada@example.com")

	user, err := svc.FindByEmail(" ADA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = svc.FindByEmail("ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
