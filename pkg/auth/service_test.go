package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db, testutils.JWTSecret)
	ctx := context.Background()
	librarian := testutils.CreateUser(t, db, "Librarian1", models.RoleLibrarian)

	user, err := svc.Authenticate(ctx, "librarian1", testutils.Password)
	require.NoError(t, err)
	assert.Equal(t, librarian.ID, user.ID)
	assert.True(t, user.HasPermission(models.ResourceBookInstances, models.OperationMarkReturned))

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "librarian1", "not-the-password"},
		{"unknown user", "nobody", testutils.Password},
	}
	for _, tt := range tests {
		_, err := svc.Authenticate(ctx, tt.username, tt.password)
		var e *errcodes.Error
		require.ErrorAs(t, err, &e, tt.name)
		assert.Equal(t, http.StatusUnauthorized, e.HTTPCode, tt.name)
		assert.Equal(t, msgInvalidLogin, e.Message, tt.name)
	}
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db, testutils.JWTSecret)
	ctx := context.Background()
	user := testutils.CreateUser(t, db, "gone", models.RolePatron)

	_, err := db.NewUpdate().Model(user).Set("is_active = ?", false).WherePK().Exec(ctx)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "gone", testutils.Password)
	assert.Error(t, err)
	_, err = svc.GetUserByID(ctx, user.ID)
	assert.Error(t, err)
}

func TestToken_RoundTrip(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db, testutils.JWTSecret)
	user := testutils.CreateUser(t, db, "patron1", models.RolePatron)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "patron1", claims.Username)

	_, err = NewService(db, "another-secret").ValidateToken(token)
	assert.Error(t, err)
}

func TestToken_Expires(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db, testutils.JWTSecret)
	issued := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc.clock = testutils.FixedClock(issued)
	user := testutils.CreateUser(t, db, "patron1", models.RolePatron)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	svc.clock = testutils.FixedClock(issued.Add(TokenExpiry - time.Minute))
	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	svc.clock = testutils.FixedClock(issued.Add(TokenExpiry + time.Minute))
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, CheckPassword("correct horse battery", hash))
	assert.False(t, CheckPassword("wrong horse battery", hash))
}
