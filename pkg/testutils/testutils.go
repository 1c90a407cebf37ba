// Package testutils sets up databases, echo instances and fixtures for tests.
package testutils

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/binder"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/migrations"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/views"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"
)

// Password is the password of every user made by CreateUser.
const Password = "twelve-characters"

// LoginPath matches the login page the site redirects to.
const LoginPath = "/accounts/login/"

// NewTestDB returns a migrated in-memory database that is closed when the test
// ends.
func NewTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// NewEcho returns an echo instance wired like the server's, with a recorder
// around the real templates.
func NewEcho(t *testing.T) (*echo.Echo, *views.Recorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b

	renderer, err := views.New()
	require.NoError(t, err)
	recorder := views.NewRecorder(renderer)
	e.Renderer = recorder

	e.HTTPErrorHandler = errcodes.NewHandler(LoginPath).Handle

	return e, recorder
}

// JWTSecret signs session tokens in tests.
const JWTSecret = "test-secret"

// Do sends a request through e. A non-nil form is sent as a url-encoded body.
func Do(e *echo.Echo, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// FixedClock returns a clock that always reads now.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time {
		return now
	}
}

// Date is midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateUser creates an active user with the given role and returns it with
// the role and permissions loaded.
func CreateUser(t *testing.T, db *bun.DB, username, roleName string) *models.User {
	t.Helper()
	ctx := context.Background()

	role := &models.Role{}
	err := db.NewSelect().Model(role).Where("name = ?", roleName).Scan(ctx)
	require.NoError(t, err)

	// MinCost keeps tests fast; the cost is stored in the hash.
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	err = db.NewSelect().
		Model(user).
		Relation("Role").
		Relation("Role.Permissions").
		WherePK().
		Scan(ctx)
	require.NoError(t, err)

	return user
}

func CreateLanguage(t *testing.T, db *bun.DB, name string) *models.Language {
	t.Helper()

	language := &models.Language{Name: name}
	_, err := db.NewInsert().Model(language).Exec(context.Background())
	require.NoError(t, err)
	return language
}

func CreateGenre(t *testing.T, db *bun.DB, name string) *models.Genre {
	t.Helper()

	genre := &models.Genre{Name: name}
	_, err := db.NewInsert().Model(genre).Exec(context.Background())
	require.NoError(t, err)
	return genre
}

func CreateAuthor(t *testing.T, db *bun.DB, firstName, lastName string) *models.Author {
	t.Helper()

	author := &models.Author{FirstName: firstName, LastName: lastName}
	_, err := db.NewInsert().Model(author).Exec(context.Background())
	require.NoError(t, err)
	return author
}

// CreateBook creates a book by author in language, tagged with genres.
func CreateBook(t *testing.T, db *bun.DB, title string, author *models.Author, language *models.Language, genres ...*models.Genre) *models.Book {
	t.Helper()
	ctx := context.Background()

	book := &models.Book{
		Title:      title,
		Summary:    "Summary of " + title,
		ISBN:       "9780306406157",
		AuthorID:   author.ID,
		LanguageID: language.ID,
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	for _, genre := range genres {
		_, err = db.NewInsert().Model(&models.BookGenre{BookID: book.ID, GenreID: genre.ID}).Exec(ctx)
		require.NoError(t, err)
	}
	return book
}

// CreateBookInstance creates a copy of book. borrower may be nil.
func CreateBookInstance(t *testing.T, db *bun.DB, book *models.Book, status string, dueBack *time.Time, borrower *models.User) *models.BookInstance {
	t.Helper()

	instance := &models.BookInstance{
		ID:      uuid.New(),
		BookID:  book.ID,
		Imprint: "Unlikely Imprint, 2016",
		DueBack: dueBack,
		Status:  status,
	}
	if borrower != nil {
		instance.BorrowerID = &borrower.ID
	}
	_, err := db.NewInsert().Model(instance).Exec(context.Background())
	require.NoError(t, err)
	return instance
}
