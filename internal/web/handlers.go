package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/freeresearch/internal/app"
	"github.com/hyperifyio/freeresearch/internal/report"
)

var exportFormats = []report.Format{report.FormatJSON, report.FormatMarkdown, report.FormatPDF, report.FormatDOCX}

type pageData struct {
	Query     string
	Error     string
	Report    *report.Report
	NoResults bool
	Formats   []report.Format
	Version   string
}

func (s *Server) page(d pageData) pageData {
	d.Formats = exportFormats
	d.Version = s.info.Version
	return d
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", s.page(pageData{}))
}

func (s *Server) handleResearch(c echo.Context) error {
	query := c.FormValue("query")
	format, err := report.ParseFormat(c.FormValue("format"))
	if err != nil {
		return c.Render(http.StatusBadRequest, "index.html", s.page(pageData{Query: query, Error: "Unknown export format."}))
	}

	rep, err := s.researcher.Research(c.Request().Context(), query)
	noResults := false
	switch {
	case errors.Is(err, app.ErrEmptyQuery):
		return c.Render(http.StatusBadRequest, "index.html", s.page(pageData{Error: "Please enter a research question."}))
	case errors.Is(err, app.ErrNoResults):
		log.Info().Err(err).Str("query", rep.Query).Msg("no results")
		noResults = true
	case err != nil:
		log.Error().Err(err).Str("query", query).Msg("research failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "research failed")
	}

	if format == report.FormatHTML {
		return c.Render(http.StatusOK, "results.html", s.page(pageData{Query: rep.Query, Report: &rep, NoResults: noResults || len(rep.Findings) == 0}))
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, rep, format); err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("export failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Filename(rep.Query, format)))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": s.info.Version})
}

type debugInfo struct {
	Version        string          `json:"version"`
	Templates      []string        `json:"templates"`
	TemplatesExist bool            `json:"templates_exist"`
	StaticFiles    []string        `json:"static_files"`
	Provider       string          `json:"provider"`
	Strategy       string          `json:"strategy"`
	RespectsRobots bool            `json:"respects_robots"`
	CredentialsSet map[string]bool `json:"credentials_set"`
	ExportFormats  []report.Format `json:"export_formats"`
}

func (s *Server) handleDebug(c echo.Context) error {
	names := s.render.names()
	exists := false
	for _, n := range names {
		if n == "index.html" {
			exists = true
		}
	}
	return c.JSON(http.StatusOK, debugInfo{
		Version:        s.info.Version,
		Templates:      names,
		TemplatesExist: exists,
		StaticFiles:    staticFiles(),
		Provider:       s.info.Provider,
		Strategy:       s.info.Strategy,
		RespectsRobots: s.info.RespectsRobots,
		CredentialsSet: map[string]bool{"google": s.info.GoogleKeySet, "llm": s.info.LLMKeySet},
		ExportFormats:  exportFormats,
	})
}
