// Package view renders html/template pages with a shared layout. Templates
// are parsed once and cached; every page is a pure function of the data map
// handed to Render.
package view

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/haserol/docpanel/internal/i18n"
	"github.com/haserol/docpanel/internal/visits"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver = func(_ *http.Request) string { return "tr" }
)

// SetLangResolver lets the host app provide a language resolver (e.g. from a
// cookie or the session).
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the standard func map: i18n plus the visit/status and date
// helpers the previews need.
func Funcs(r *http.Request) template.FuncMap {
	lang := langResolver(r)
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"statusLabel": func(status string) string {
			return i18n.T(lang, visits.DisplayFor(status).Code)
		},
		"statusColor": func(status string) string {
			return visits.DisplayFor(status).Color
		},
		"fmtDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02.01.2006")
		},
		"fmtDay": func(t time.Time) int { return t.Day() },
		"year":   func() int { return time.Now().Year() },
		"add":    func(a, b int) int { return a + b },
		"sub":    func(a, b int) int { return a - b },
	}
}

// Render writes the named template wrapped in layout.html. The page is
// buffered so a template error never leaves a half-written response.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	once.Do(detectBase)
	tpl, err := load(r, name)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(buf.Bytes())
	return err
}

func load(r *http.Request, name string) (*template.Template, error) {
	key := langResolver(r) + ":" + name
	tplCache.RLock()
	if t, ok := tplCache.m[key]; ok && os.Getenv("DEV") != "1" {
		tplCache.RUnlock()
		return t, nil
	}
	tplCache.RUnlock()

	t := template.New(name).Funcs(Funcs(r))
	t, err := t.ParseFiles(filepath.Join(baseDir, "layout.html"), filepath.Join(baseDir, name))
	if err != nil {
		return nil, err
	}
	tplCache.Lock()
	tplCache.m[key] = t
	tplCache.Unlock()
	return t, nil
}
