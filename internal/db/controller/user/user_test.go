package user

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Role{}, &models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedRole inserts a role and returns its ID.
func seedRole(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()

	role := models.Role{Name: name, Description: name + " role"}
	require.NoError(t, db.Create(&role).Error)

	return role.ID
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)
	roleID := seedRole(t, db, "Administrator")

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		user          models.User
		password      string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			user:          models.User{Username: "admin", RoleID: roleID},
			password:      "secret",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty username",
			dbParam:       db,
			user:          models.User{RoleID: roleID},
			password:      "secret",
			expectedError: ErrUsernameEmpty,
		},
		{
			name:          "empty password",
			dbParam:       db,
			user:          models.User{Username: "admin", RoleID: roleID},
			expectedError: ErrPasswordEmpty,
		},
		{
			name:     "successful create",
			dbParam:  db,
			user:     models.User{Username: "admin", Email: "admin@example.com", Active: true, RoleID: roleID},
			password: "correct-horse",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM users")
			}

			err := Create(tc.dbParam, &tc.user, tc.password)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, tc.user.ID)
				assert.NotEqual(t, tc.password, tc.user.Password)
				assert.True(t, tc.user.VerifyPassword(tc.password))
				assert.False(t, tc.user.VerifyPassword("wrong"))
			}
		})
	}
}

func TestGetByUsername(t *testing.T) {
	db := setupTestDB(t)
	roleID := seedRole(t, db, "Administrator")

	u := models.User{Username: "admin", Email: "admin@example.com", Active: true, RoleID: roleID}
	require.NoError(t, Create(db, &u, "secret"))

	found, err := GetByUsername(db, "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, "Administrator", found.Role.Name)

	_, err = GetByUsername(db, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = GetByUsername(db, "")
	require.ErrorIs(t, err, ErrUsernameEmpty)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)
	roleID := seedRole(t, db, "Administrator")

	u := models.User{Username: "editor", Email: "old@example.com", Active: true, RoleID: roleID}
	require.NoError(t, Create(db, &u, "secret"))
	originalHash := u.Password

	// Update without touching the password
	u.Email = "new@example.com"
	require.NoError(t, Update(db, &u, ""))

	updated, err := GetByID(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, originalHash, updated.Password)

	// Update with a new password rehashes
	require.NoError(t, Update(db, &u, "new-secret"))
	rehashed, err := GetByID(db, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, rehashed.Password)
	assert.True(t, rehashed.VerifyPassword("new-secret"))
}

func TestSetActive(t *testing.T) {
	db := setupTestDB(t)
	roleID := seedRole(t, db, "Administrator")

	u := models.User{Username: "admin", Active: true, RoleID: roleID}
	require.NoError(t, Create(db, &u, "secret"))

	require.NoError(t, SetActive(db, u.ID, false))

	disabled, err := GetByID(db, u.ID)
	require.NoError(t, err)
	assert.False(t, disabled.Active)

	require.ErrorIs(t, SetActive(db, 9999, true), ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	roleID := seedRole(t, db, "Administrator")

	u := models.User{Username: "doomed", Active: true, RoleID: roleID}
	require.NoError(t, Create(db, &u, "secret"))

	require.NoError(t, Delete(db, u.ID))
	_, err := GetByID(db, u.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	require.ErrorIs(t, Delete(db, u.ID), ErrUserNotFound)
}
