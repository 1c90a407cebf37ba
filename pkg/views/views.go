// Package views renders the site's HTML pages from embedded templates.
package views

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lorenamitrea/LocalLibrary/pkg/dates"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "base.html"

// Page is what every template executes against. Data holds the page's own
// values.
type Page struct {
	User            *models.User
	Path            string
	CanMarkReturned bool
	Data            interface{}
}

// Renderer implements echo.Renderer. Each page template is parsed together
// with the base layout and fills in its "content" block.
type Renderer struct {
	templates map[string]*template.Template
}

func New() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		name := path.Base(page)
		if name == baseTemplate {
			continue
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+baseTemplate, page)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", name)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}

	page := Page{Data: data}
	if c != nil {
		page.Path = c.Request().URL.Path
		if user, ok := c.Get("user").(*models.User); ok {
			page.User = user
			page.CanMarkReturned = user.HasPermission(models.ResourceBookInstances, models.OperationMarkReturned)
		}
	}

	return errors.WithStack(t.ExecuteTemplate(w, baseTemplate, page))
}

var funcs = template.FuncMap{
	"contains":    containsID,
	"date":        formatDate,
	"statusLabel": statusLabel,
	"statuses":    statuses,
}

func containsID(ids []int, id int) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

func statusLabel(status string) string {
	return models.StatusLabels[status]
}

func statuses() []string {
	return models.Statuses
}

// formatDate renders time.Time and *time.Time values as YYYY-MM-DD, and
// anything else (including nil) as an empty string.
func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return dates.Format(t)
	case *time.Time:
		return dates.FormatPtr(t)
	default:
		return ""
	}
}
