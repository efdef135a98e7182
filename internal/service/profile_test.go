package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/utils"
)

func TestProfileService_Update(t *testing.T) {
	users := newFakeUsers(adminUser(t, "old"))
	svc := NewProfileService(users, hasher)
	before := users.password(1)

	u, err := svc.Update(context.Background(), 1, ProfileInput{
		Username: "ada", Firstname: "Ada", Lastname: "Lovelace", Email: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Username)
	assert.Equal(t, before, users.password(1), "empty password keeps the hash")

	_, err = svc.Update(context.Background(), 1, ProfileInput{Username: "ada", Email: "ada@example.com", NewPassword: "new"})
	require.NoError(t, err)
	assert.Equal(t, utils.VerifySuccess, hasher.Verify(users.password(1), "new"))
}

func TestProfileService_Update_Errors(t *testing.T) {
	users := newFakeUsers(adminUser(t, "old"), &model.User{Username: "Other", Email: "taken@example.com"})
	svc := NewProfileService(users, hasher)

	_, err := svc.Update(context.Background(), 9, ProfileInput{Username: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), 1, ProfileInput{Username: "x", Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	users.err = errDown
	_, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStore)
}

func TestProfileService_Provision(t *testing.T) {
	users := newFakeUsers()
	svc := NewProfileService(users, hasher)

	u, created, err := svc.Provision(context.Background(), ProfileInput{Username: "admin", Email: "admin@example.com", NewPassword: "first"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Admin", u.Username)

	u, created, err = svc.Provision(context.Background(), ProfileInput{Username: "admin", Email: "admin@example.com", NewPassword: "second"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint64(1), u.ID)
	assert.Equal(t, utils.VerifySuccess, hasher.Verify(users.password(1), "second"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Ådmin", capitalize("ådmin"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "X", capitalize("x"))
}
