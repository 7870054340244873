package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lineplanner/pkg/balance"
	"github.com/matzehuels/lineplanner/pkg/bulletin"
	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/pipeline"
	"github.com/matzehuels/lineplanner/pkg/render"
	"github.com/matzehuels/lineplanner/pkg/sheet"
)

// =============================================================================
// Request / Response Types
// =============================================================================

type parseResponse struct {
	Operations      []line.Operation `json:"operations"`
	DroppedSections []string         `json:"dropped_sections,omitempty"`
}

type layoutRequest struct {
	Operations    []line.Operation `json:"operations"`
	TargetOutput  *int             `json:"target_output"`
	WorkingHours  *float64         `json:"working_hours"`
	UnitTemplates bool             `json:"unit_templates"`
}

type layoutResponse struct {
	Requirements    []line.Requirement     `json:"requirements"`
	Summary         balance.Summary        `json:"summary"`
	TaktTime        float64                `json:"takt_time"`
	Instances       []line.MachineInstance `json:"instances"`
	DroppedSections []string               `json:"dropped_sections,omitempty"`
}

type parametersRequest struct {
	TargetOutput int     `json:"target_output"`
	WorkingHours float64 `json:"working_hours"`
}

type linesResponse struct {
	Lines []*line.Record `json:"lines"`
}

// =============================================================================
// Bulletins
// =============================================================================

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	grid, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ops, err := s.runner.Normalize(r.Context(), grid, s.defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Operations:      ops,
		DroppedSections: floor.Dropped(ops),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.defaults
	if req.TargetOutput != nil {
		opts.TargetOutput = *req.TargetOutput
	}
	if req.WorkingHours != nil {
		opts.WorkingHours = *req.WorkingHours
	}
	opts.UnitTemplates = opts.UnitTemplates || req.UnitTemplates

	l, err := s.runner.Layout(r.Context(), req.Operations, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reqs, summary := pipeline.Plan(req.Operations, opts.TargetOutput, opts.WorkingHours)
	writeJSON(w, http.StatusOK, layoutResponse{
		Requirements:    reqs,
		Summary:         summary,
		TaktTime:        l.TaktTime,
		Instances:       l.Instances,
		DroppedSections: floor.Dropped(req.Operations),
	})
}

// =============================================================================
// Lines
// =============================================================================

func (s *Server) handleCreateLine(w http.ResponseWriter, r *http.Request) {
	grid, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	fields := map[string]string{}
	for _, name := range []string{"line_no", "style_no", "cone_no"} {
		v := strings.TrimSpace(r.FormValue(name))
		if err := errors.ValidateIdentifier(name, v); err != nil {
			s.writeError(w, r, err)
			return
		}
		fields[name] = v
	}

	opts := s.defaults
	if v := r.FormValue("target_output"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidParameters, "target_output must be an integer"))
			return
		}
		opts.TargetOutput = n
	}
	if v := r.FormValue("working_hours"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidParameters, "working_hours must be a number"))
			return
		}
		opts.WorkingHours = f
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ops, err := s.runner.Normalize(r.Context(), grid, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := line.NewRecord(fields["line_no"], fields["style_no"], fields["cone_no"], ops, nil)
	rec.Retune(opts.TargetOutput, opts.WorkingHours, pipeline.LayoutFunc(opts))
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("line saved", "id", rec.ID, "operations", len(ops), "instances", len(rec.MachineLayout))
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListLines(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*line.Record{}
	}
	writeJSON(w, http.StatusOK, linesResponse{Lines: recs})
}

func (s *Server) handleGetLine(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteLine(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRetuneLine(w http.ResponseWriter, r *http.Request) {
	var req parametersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateParameters(req.TargetOutput, req.WorkingHours); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.defaults
	opts.TargetOutput, opts.WorkingHours = req.TargetOutput, req.WorkingHours
	rec.Retune(req.TargetOutput, req.WorkingHours, pipeline.LayoutFunc(opts))
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRenderLine(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid format"))
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	target, hours := rec.Params()
	opts := s.defaults
	opts.TargetOutput, opts.WorkingHours = target, hours
	opts.Formats = []string{string(format)}
	q := r.URL.Query()
	opts.Section = q.Get("section")
	opts.Detailed = q.Get("detailed") == "true"
	opts.CompactJSON = q.Get("compact") == "true"
	opts.NoLabels = q.Get("labels") == "false"

	l := line.Layout{
		TargetOutput: target,
		WorkingHours: hours,
		TaktTime:     balance.TaktTime(target, hours),
		Instances:    rec.MachineLayout,
	}
	artifacts, err := s.runner.Render(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[string(format)])
}

// =============================================================================
// Helpers
// =============================================================================

// readUpload reads the bulletin sent as the multipart field "file".
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (bulletin.Grid, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, badRequest("invalid multipart form: %v", err)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, badRequest("missing form file %q", "file")
	}
	defer f.Close()

	format, err := sheet.FormatOf(hdr.Filename)
	if err != nil {
		return nil, err
	}
	return sheet.Read(f, format)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON: %v", err)
	}
	return nil
}

func contentType(f render.Format) string {
	switch f {
	case render.FormatJSON:
		return "application/json"
	case render.FormatSVG, render.FormatFlow:
		return "image/svg+xml"
	case render.FormatPDF:
		return "application/pdf"
	case render.FormatPNG:
		return "image/png"
	case render.FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}
