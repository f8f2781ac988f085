// Package server exposes a read-only web view of a novel project: outline,
// chapters and plot threads.
package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"

	"github.com/plotloom/plotloom/internal/project"
	"github.com/plotloom/plotloom/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP server for browsing a project.
type Server struct {
	store *store.Store
	proj  *project.Project
	pages map[string]*template.Template
	mux   *http.ServeMux
	log   zerolog.Logger
}

// New creates a new Server.
func New(st *store.Store, proj *project.Project, log zerolog.Logger) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
	}

	// Parse base template first.
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "chapters.html", "chapter.html", "threads.html", "outline.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{store: st, proj: proj, pages: pages, mux: http.NewServeMux(), log: log}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/chapters", s.handleChapters)
	s.mux.HandleFunc("/chapter/", s.handleChapter)
	s.mux.HandleFunc("/threads", s.handleThreads)
	s.mux.HandleFunc("/outline", s.handleOutline)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.render(w, "index.html", map[string]any{
		"Project":    s.store.Project(),
		"Latest":     s.store.LatestChapterNumber(),
		"Chapters":   len(s.store.Summaries()),
		"Characters": s.store.SortedCharacters(),
		"Threads":    len(s.store.Threads()),
		"Active":     len(s.store.ActiveThreads()),
		"Recent":     s.store.RecentSummaries(5),
	})
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	s.render(w, "chapters.html", map[string]any{
		"Summaries": s.store.Summaries(),
	})
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	num, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/chapter/"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var summary *store.ChapterSummary
	for _, sum := range s.store.Summaries() {
		if sum.ChapterNum == num {
			summary = &sum
			break
		}
	}
	if summary == nil {
		http.NotFound(w, r)
		return
	}

	content := ""
	path := s.proj.ChapterPath(summary.ChapterNum, summary.Title)
	if data, err := os.ReadFile(path); err == nil {
		content = string(data)
	} else {
		s.log.Warn().Str("path", path).Msg("chapter file not readable")
	}

	s.render(w, "chapter.html", map[string]any{
		"Summary": summary,
		"Content": content,
	})
}

func (s *Server) handleThreads(w http.ResponseWriter, r *http.Request) {
	s.render(w, "threads.html", map[string]any{
		"Threads": s.store.Threads(),
	})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	s.render(w, "outline.html", map[string]any{
		"Outline": s.proj.LoadOutline(),
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.log.Error().Str("template", name).Msg("template not found")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(st *store.Store, proj *project.Project, log zerolog.Logger, port int) error {
	srv, err := New(st, proj, log)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Info().Str("addr", "http://"+addr).Msg("server listening")
	return http.ListenAndServe(addr, srv.Handler())
}
