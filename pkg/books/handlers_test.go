package books

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/auth"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/lorenamitrea/LocalLibrary/pkg/testutils"
	"github.com/lorenamitrea/LocalLibrary/pkg/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testEnv struct {
	db       *bun.DB
	e        *echo.Echo
	recorder *views.Recorder
	author   *models.Author
	language *models.Language
	genre    *models.Genre
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutils.NewTestDB(t)
	e, recorder := testutils.NewEcho(t)
	authMiddleware := auth.NewMiddleware(auth.NewService(db, testutils.JWTSecret))
	e.Use(authMiddleware.AuthenticateOptional)
	RegisterRoutesWithGroup(e.Group("/catalog"), db, authMiddleware, 10)

	return &testEnv{
		db:       db,
		e:        e,
		recorder: recorder,
		author:   testutils.CreateAuthor(t, db, "Ursula", "Le Guin"),
		language: testutils.CreateLanguage(t, db, "English"),
		genre:    testutils.CreateGenre(t, db, "Science Fiction"),
	}
}

func (env *testEnv) librarian(t *testing.T) *http.Cookie {
	t.Helper()
	user := testutils.CreateUser(t, env.db, "librarian1", models.RoleLibrarian)
	token, err := auth.NewService(env.db, testutils.JWTSecret).GenerateToken(user)
	require.NoError(t, err)
	return auth.NewSessionCookie(token, auth.CookieMaxAge, false)
}

func (env *testEnv) form(title string) url.Values {
	return url.Values{
		"title":    {title},
		"author":   {strconv.Itoa(env.author.ID)},
		"summary":  {"<p>An <em>anarchist</em> physicist.</p>"},
		"isbn":     {"978-0-306-40615-7"},
		"genre":    {strconv.Itoa(env.genre.ID)},
		"language": {strconv.Itoa(env.language.ID)},
	}
}

func TestList_Paginates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	for i := 0; i < 11; i++ {
		testutils.CreateBook(t, env.db, fmt.Sprintf("Book %02d", i), env.author, env.language, env.genre)
	}

	rec := testutils.Do(env.e, http.MethodGet, "/catalog/books/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last, _ := env.recorder.Last()
	page := last.Data.(ListPage)
	require.Len(t, page.BookList, 10)
	assert.True(t, page.Page.IsPaginated())
	assert.Equal(t, "Science Fiction", page.BookList[0].DisplayGenre())
	assert.Equal(t, "Le Guin", page.BookList[0].Author.LastName)

	rec = testutils.Do(env.e, http.MethodGet, "/catalog/books/?page=last", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last, _ = env.recorder.Last()
	assert.Len(t, last.Data.(ListPage).BookList, 1)

	rec = testutils.Do(env.e, http.MethodGet, "/catalog/books/?page=x", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRetrieve_IncludesCopies(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	book := testutils.CreateBook(t, env.db, "The Dispossessed", env.author, env.language, env.genre)
	testutils.CreateBookInstance(t, env.db, book, models.StatusAvailable, nil, nil)
	testutils.CreateBookInstance(t, env.db, book, models.StatusMaintenance, nil, nil)

	rec := testutils.Do(env.e, http.MethodGet, book.URL(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last, _ := env.recorder.Last()
	detail := last.Data.(DetailPage)
	assert.Len(t, detail.Book.Instances, 2)
	assert.Equal(t, "English", detail.Book.Language.Name)

	rec = testutils.Do(env.e, http.MethodGet, "/catalog/book/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := testutils.Do(env.e, http.MethodPost, "/catalog/book/create/", env.form("The Dispossessed"), env.librarian(t))
	require.Equal(t, http.StatusFound, rec.Code)

	book := &models.Book{}
	err := env.db.NewSelect().Model(book).Where("b.title = ?", "The Dispossessed").Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, book.URL(), rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "9780306406157", book.ISBN)
	assert.Equal(t, "An anarchist physicist.", book.Summary)

	id := book.ID
	book, err = NewService(env.db).RetrieveBook(context.Background(), RetrieveBookOptions{ID: &id})
	require.NoError(t, err)
	assert.Equal(t, []int{env.genre.ID}, book.GenreIDs())
}

func TestCreate_InvalidForm(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cookie := env.librarian(t)

	tests := []struct {
		name  string
		edit  func(url.Values)
		field string
		msg   string
	}{
		{"missing title", func(f url.Values) { f.Del("title") }, "title", "This field is required."},
		{"short isbn", func(f url.Values) { f.Set("isbn", "12345") }, "isbn", "Ensure this value has exactly 13 characters."},
		{"bad check digit", func(f url.Values) { f.Set("isbn", "9780306406158") }, "isbn", "Enter a valid 13 digit ISBN."},
		{"unknown author", func(f url.Values) { f.Set("author", "999") }, "author", "Select a valid choice. That choice is not one of the available choices."},
		{"unknown genre", func(f url.Values) { f.Set("genre", "999") }, "genre", "Select a valid choice. 999 is not one of the available choices."},
		{"missing language", func(f url.Values) { f.Del("language") }, "language", "This field is required."},
	}
	for _, tt := range tests {
		form := env.form("Some Book")
		tt.edit(form)
		rec := testutils.Do(env.e, http.MethodPost, "/catalog/book/create/", form, cookie)
		require.Equal(t, http.StatusOK, rec.Code, tt.name)
		last, _ := env.recorder.Last()
		assert.Equal(t, []string{tt.msg}, last.Data.(FormPage).Errors.Get(tt.field), tt.name)
	}

	count, err := NewService(env.db).CountBooks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdate_ReplacesGenres(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	fantasy := testutils.CreateGenre(t, env.db, "Fantasy")
	book := testutils.CreateBook(t, env.db, "A Wizard of Earthsea", env.author, env.language, env.genre)
	cookie := env.librarian(t)

	rec := testutils.Do(env.e, http.MethodGet, book.URL()+"/update/", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	last, _ := env.recorder.Last()
	assert.Equal(t, []int{env.genre.ID}, last.Data.(FormPage).Form.Genre)

	form := env.form("A Wizard of Earthsea")
	form.Set("genre", strconv.Itoa(fantasy.ID))
	rec = testutils.Do(env.e, http.MethodPost, book.URL()+"/update/", form, cookie)
	require.Equal(t, http.StatusFound, rec.Code)

	id := book.ID
	updated, err := NewService(env.db).RetrieveBook(context.Background(), RetrieveBookOptions{ID: &id})
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", updated.DisplayGenre())
}

func TestDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cookie := env.librarian(t)
	book := testutils.CreateBook(t, env.db, "Gone", env.author, env.language, env.genre)
	kept := testutils.CreateBook(t, env.db, "Kept", env.author, env.language)
	testutils.CreateBookInstance(t, env.db, kept, models.StatusAvailable, nil, nil)

	rec := testutils.Do(env.e, http.MethodPost, book.URL()+"/delete/", url.Values{}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/books/", rec.Header().Get(echo.HeaderLocation))

	rec = testutils.Do(env.e, http.MethodPost, kept.URL()+"/delete/", url.Values{}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	last, _ := env.recorder.Last()
	assert.NotEmpty(t, last.Data.(DeletePage).Error)

	count, err := NewService(env.db).CountBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEdit_Gated(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	book := testutils.CreateBook(t, env.db, "Gated", env.author, env.language)
	patron := testutils.CreateUser(t, env.db, "patron1", models.RolePatron)
	token, err := auth.NewService(env.db, testutils.JWTSecret).GenerateToken(patron)
	require.NoError(t, err)
	cookie := auth.NewSessionCookie(token, auth.CookieMaxAge, false)

	for _, path := range []string{"/catalog/book/create/", book.URL() + "/update/", book.URL() + "/delete/"} {
		rec := testutils.Do(env.e, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		rec = testutils.Do(env.e, http.MethodGet, path, nil, cookie)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		rec = testutils.Do(env.e, http.MethodPost, path, url.Values{}, cookie)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestUpdateBook_LeavesCallerColumnsAlone(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewService(env.db)
	book := testutils.CreateBook(t, env.db, "Old Title", env.author, env.language)

	columns := make([]string, 0, 4)
	columns = append(columns, "title")
	book.Title = "New Title"
	require.NoError(t, svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: columns}))

	assert.Equal(t, []string{"title", ""}, columns[:2])
	reloaded, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "New Title", reloaded.Title)
}
