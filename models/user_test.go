package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoles(t *testing.T) {
	reformer := User{Role: RoleReformer}
	assert.True(t, reformer.IsReformer())

	customer := User{Role: RoleCustomer}
	assert.False(t, customer.IsReformer())

	admin := User{Role: RoleAdmin}
	assert.False(t, admin.IsReformer())
}

func TestUserUniqueConstraints(t *testing.T) {
	db := setupModelTestDB(t)

	user := User{Auth0ID: "auth0|abc", Name: "Kim", Email: "kim@example.com", Role: RoleCustomer}
	assert.NoError(t, db.Create(&user).Error)

	sameAuth0 := User{Auth0ID: "auth0|abc", Name: "Other", Email: "other@example.com"}
	assert.Error(t, db.Create(&sameAuth0).Error)

	sameEmail := User{Auth0ID: "auth0|def", Name: "Other", Email: "kim@example.com"}
	assert.Error(t, db.Create(&sameEmail).Error)
}

func TestUserDefaultRole(t *testing.T) {
	db := setupModelTestDB(t)

	user := User{Auth0ID: "auth0|norole", Name: "No Role", Email: "norole@example.com"}
	assert.NoError(t, db.Create(&user).Error)

	var loaded User
	assert.NoError(t, db.First(&loaded, user.ID).Error)
	assert.Equal(t, RoleCustomer, loaded.Role)
}
