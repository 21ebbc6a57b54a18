package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/tsukuyomi/internal/model"
	"github.com/nao1215/tsukuyomi/internal/render"
)

// sitemapPageCount is the number of sitemap pages advertised by the index.
// Pages beyond the advertised count still resolve, so a crawler probing
// /sitemap-999.xml finds more trap entrances rather than a boundary.
const sitemapPageCount = 8

// fallbackBody answers in the vanishingly unlikely case rendering failed.
// Still HTTP 200: the trap never admits an error.
var fallbackBody = []byte("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\"><title>survey</title></head><body><p><a href=\"/\">origin frame</a></p></body></html>\n")

// handleTrap serves every trap page, including every unmatched path.
func (s *Server) handleTrap(w http.ResponseWriter, r *http.Request) {
	req := &model.PageRequest{
		RawPath:    r.URL.Path,
		ClientAddr: ClientAddr(r.RemoteAddr),
		UserAgent:  r.UserAgent(),
		ReceivedAt: time.Now(),
	}
	if s.store != nil || s.db != nil {
		req.ClientKey = ClientKey(r.RemoteAddr, r.UserAgent())
	}

	if err := s.pipeline.Execute(r.Context(), req); err != nil {
		if r.Context().Err() != nil {
			// Client went away mid-delay; nothing left to answer.
			return
		}
		s.logger.Error("pipeline error", "path", req.RawPath, "error", err)
	}

	body := req.Body
	if len(body) == 0 {
		body = fallbackBody
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)

	s.logger.Info("hit",
		"path", req.RawPath,
		"token", req.Token,
		"depth", req.Depth,
		"effective_depth", req.EffectiveDepth,
		"fresh", req.Fresh,
		"client", req.ClientKey,
		"delay", req.Delay,
	)
}

// handleRobots serves the robots.txt that steers crawlers into the trap.
func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(render.Robots())
}

// handleSitemapIndex serves the sitemap index.
func (s *Server) handleSitemapIndex(w http.ResponseWriter, r *http.Request) {
	body, err := render.SitemapIndex(sitemapPageCount)
	if err != nil {
		s.handleTrap(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// handleSitemap serves one numbered sitemap page. Every page lists fresh
// root tokens derived from the page and entry numbers, so the chain is
// deterministic without storing anything.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		s.handleTrap(w, r)
		return
	}

	tokens := make([]model.Token, 0, s.cfg.SitemapPageSize)
	for i := 0; i < s.cfg.SitemapPageSize; i++ {
		tokens = append(tokens, s.deriver.Root(fmt.Sprintf("/sitemap/%d/%d", page, i)))
	}

	body, err := render.Sitemap(tokens, 0)
	if err != nil {
		s.handleTrap(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// handleStats serves the operator activity page.
// It prefers the live tracker and falls back to the persistent hit log.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var report *model.TrapReport
	switch {
	case s.store != nil:
		report = s.store.Report()
	case s.db != nil:
		var err error
		report, err = s.db.Summary(r.Context())
		if err != nil {
			s.logger.Error("stats summary failed", "error", err)
			report = &model.TrapReport{GeneratedAt: time.Now()}
		}
	default:
		report = &model.TrapReport{GeneratedAt: time.Now()}
	}

	body, err := s.renderer.Stats(report)
	if err != nil {
		s.handleTrap(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}
