package languages

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	e, recorder := testutils.NewEcho(t)
	authMiddleware := auth.NewMiddleware(auth.NewService(db, testutils.JWTSecret))
	e.Use(authMiddleware.AuthenticateOptional)
	RegisterRoutesWithGroup(e.Group("/catalog"), db, authMiddleware)

	librarian := testutils.CreateUser(t, db, "librarian1", models.RoleLibrarian)
	token, err := auth.NewService(db, testutils.JWTSecret).GenerateToken(librarian)
	require.NoError(t, err)
	cookie := auth.NewSessionCookie(token, auth.CookieMaxAge, false)

	rec := testutils.Do(e, http.MethodPost, "/catalog/language/create/", url.Values{"name": {"  French "}}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/languages/", rec.Header().Get(echo.HeaderLocation))

	tests := []struct {
		name string
		msg  string
	}{
		{"FRENCH", "Language already exists (case insensitive match)"},
		{"", "This field is required."},
	}
	for _, tt := range tests {
		rec = testutils.Do(e, http.MethodPost, "/catalog/language/create/", url.Values{"name": {tt.name}}, cookie)
		require.Equal(t, http.StatusOK, rec.Code, tt.name)
		last, _ := recorder.Last()
		assert.Equal(t, []string{tt.msg}, last.Data.(FormPage).Errors.Get("name"), tt.name)
	}

	rec = testutils.Do(e, http.MethodGet, "/catalog/languages/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last, _ := recorder.Last()
	languages := last.Data.(ListPage).LanguageList
	require.Len(t, languages, 1)
	assert.Equal(t, "French", languages[0].Name)
}

func TestCreateLanguage_FoldsUnicodeCase(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateLanguage(ctx, &models.Language{Name: "Español"}))
	err := svc.CreateLanguage(ctx, &models.Language{Name: "ESPAÑOL"})
	assert.ErrorIs(t, err, ErrExists)
	require.NoError(t, svc.CreateLanguage(ctx, &models.Language{Name: "Espanol"}))
}

func TestCreate_ForbiddenForPatrons(t *testing.T) {
	t.Parallel()
	db := testutils.NewTestDB(t)
	e, _ := testutils.NewEcho(t)
	authMiddleware := auth.NewMiddleware(auth.NewService(db, testutils.JWTSecret))
	e.Use(authMiddleware.AuthenticateOptional)
	RegisterRoutesWithGroup(e.Group("/catalog"), db, authMiddleware)

	patron := testutils.CreateUser(t, db, "patron1", models.RolePatron)
	token, err := auth.NewService(db, testutils.JWTSecret).GenerateToken(patron)
	require.NoError(t, err)

	rec := testutils.Do(e, http.MethodPost, "/catalog/language/create/", url.Values{"name": {"Welsh"}}, auth.NewSessionCookie(token, auth.CookieMaxAge, false))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
