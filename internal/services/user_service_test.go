package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"woodpecker/internal/models"
	"woodpecker/internal/services"
	"woodpecker/internal/testutil/mocks"
)

func TestCreateUser_NormalizesUsername(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	svc := services.NewUserService(userRepo)

	userRepo.On("GetByUsername", mock.Anything, "magnus").Return(nil, nil)
	userRepo.On("Insert", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "magnus" && u.ID != ""
	})).Return(nil)

	user, err := svc.CreateUser(context.Background(), "  Magnus  ")
	require.NoError(t, err)
	assert.Equal(t, "magnus", user.Username)
	userRepo.AssertExpectations(t)
}

func TestCreateUser_Validation(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	svc := services.NewUserService(userRepo)

	_, err := svc.CreateUser(context.Background(), "   ")
	assert.Error(t, err)

	_, err = svc.CreateUser(context.Background(), strings.Repeat("x", 65))
	assert.Error(t, err)

	userRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	svc := services.NewUserService(userRepo)

	userRepo.On("GetByUsername", mock.Anything, "magnus").Return(&models.User{ID: "u1", Username: "magnus"}, nil)

	_, err := svc.CreateUser(context.Background(), "Magnus")
	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUpdateSettings_RejectsUnknownTimezone(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	svc := services.NewUserService(userRepo)

	err := svc.UpdateSettings(context.Background(), models.UserSettings{UserID: "u1", Timezone: "Mars/Olympus_Mons"})
	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "UpsertSettings", mock.Anything, mock.Anything)
}

func TestUpdateSettings_Persists(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	svc := services.NewUserService(userRepo)

	settings := models.UserSettings{UserID: "u1", Timezone: "Europe/Lisbon", WeakThreshold: 3}
	userRepo.On("UpsertSettings", mock.Anything, settings).Return(nil)

	require.NoError(t, svc.UpdateSettings(context.Background(), settings))
	userRepo.AssertExpectations(t)
}
