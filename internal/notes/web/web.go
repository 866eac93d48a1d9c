// Package web renders the HTML pages and serves the static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"
	_ "time/tzdata" // zones for X-Vercel-IP-Timezone in minimal images

	"github.com/aussiebroadwan/notes/pkg/slogx"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages, by template path.
const (
	PageIndex    = "index.html"
	PageAuthForm = "auth/form.html"
	PageContinue = "continue.html"
	PageError    = "error.html"
	PageNotes    = "notes/index.html"
	PageNote     = "notes/note.html"
)

var pages = []string{PageIndex, PageAuthForm, PageContinue, PageError, PageNotes, PageNote}

// TimeLayout is how note timestamps are shown.
const TimeLayout = "January 02, 2006 15:04:05"

// Page is the root object every template receives.
type Page struct {
	Title string
	Data  any
}

type FormData struct {
	Email           string
	TooManyRequests bool
}

type ContinueData struct {
	Message string
	URL     string
}

type ErrorData struct {
	Reason string
}

type NoteView struct {
	ID        int64
	Note      string
	CreatedAt string
	UpdatedAt string
}

type NotesData struct {
	Timezone string
	Notes    []NoteView
}

type NoteData struct {
	ID   int64
	Note string
}

// Renderer holds the parsed page templates. It is safe for concurrent use.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer and writes it with status. A template
// failure becomes a bare 500.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page, title string, data any) {
	t, ok := r.pages[page]
	if !ok {
		slogx.FromContext(req.Context()).Error("unknown page", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, path.Base(page), Page{Title: title, Data: data}); err != nil {
		slogx.FromContext(req.Context()).Error("render failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// RenderContinue draws the interstitial that asks the user to follow a
// same-site link to destination.
func (r *Renderer) RenderContinue(w http.ResponseWriter, req *http.Request, destination string) {
	r.Render(w, req, http.StatusOK, PageContinue, "Continue", ContinueData{URL: destination})
}

// RenderError draws the error page.
func (r *Renderer) RenderError(w http.ResponseWriter, req *http.Request, status int, reason string) {
	r.Render(w, req, status, PageError, http.StatusText(status), ErrorData{Reason: reason})
}

// Static serves the embedded stylesheets and fonts at their public paths.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}

// Location resolves an IANA zone name, falling back to UTC.
func Location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatTime renders t in loc using TimeLayout.
func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimeLayout)
}
