package view

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-erp/meridian-erp/internal/shared"
	"github.com/meridian-erp/meridian-erp/web"
)

// moneyPrinter renders monetary amounts with thousands separators.
var moneyPrinter = message.NewPrinter(language.English)

// Engine renders HTML templates. Each page template is parsed together with
// the layouts and partials so pages can live in nested directories and are
// addressed by their path relative to templates/.
type Engine struct {
	pages map[string]*template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Data        any
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"formatDatePtr": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
		"formatMoney": func(v float64) string {
			return moneyPrinter.Sprintf("%.2f", v)
		},
		"iterate": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
	}

	var pagePaths []string
	err := fs.WalkDir(web.Templates, "templates/pages", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".html") {
			pagePaths = append(pagePaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(pagePaths))
	for _, path := range pagePaths {
		tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates,
			"templates/layouts/*.html", "templates/partials/*.html", path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimPrefix(path, "templates/")
		pages[name] = tpl
	}
	return &Engine{pages: pages}, nil
}

// Render executes the layout for the named page with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	tpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tpl.ExecuteTemplate(w, "layout", data)
}
