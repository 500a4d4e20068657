package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/quote"
	"github.com/wudi/quotekit/render"
	"github.com/wudi/quotekit/render/screen"
	"github.com/wudi/quotekit/store"
)

const maxBodyBytes = 1 << 20

var errNoStore = errors.New("persistence is not configured")

type handler struct {
	store    Store
	renderer Renderer
}

// renderRequest is the body of the ad-hoc render routes. Company and Design
// override the owner's saved settings.
type renderRequest struct {
	Quotation *quote.Quotation       `json:"quotation"`
	Company   *quote.CompanyBranding `json:"company,omitempty"`
	Design    *design.Override       `json:"design,omitempty"`
}

type settingsRequest struct {
	Company *quote.CompanyBranding `json:"company,omitempty"`
	Design  *design.Override       `json:"design,omitempty"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", "corpo da requisição inválido: "+err.Error())
		return false
	}
	return true
}

// fail maps an error to its HTTP response.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())
	var re *render.Error
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "proposta não encontrada")
	case errors.Is(err, errNoStore):
		writeError(w, r, http.StatusServiceUnavailable, "unavailable", "armazenamento não configurado")
	case errors.Is(err, quote.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, "invalid_quotation", err.Error())
	case errors.As(err, &re) && re.Stage == render.StageValidate:
		writeError(w, r, http.StatusBadRequest, "invalid_request", re.Err.Error())
	case errors.Is(err, context.Canceled):
		logger.Debug().Err(err).Msg("client went away")
	case errors.Is(err, render.ErrRenderFailed):
		logger.Error().Err(err).Msg("render failed")
		writeError(w, r, http.StatusInternalServerError, "render_failed", "não foi possível gerar o documento")
	default:
		logger.Error().Err(err).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal", "erro interno")
	}
}

// settings returns the owner's saved settings, or the defaults when no store
// is configured.
func (h *handler) settings(ctx context.Context) (store.Settings, error) {
	if h.store == nil {
		return store.DefaultSettings(), nil
	}
	return h.store.GetSettings(ctx, Owner(ctx))
}

func (h *handler) overrides(ctx context.Context, company *quote.CompanyBranding, o *design.Override) (*render.Overrides, error) {
	st, err := h.settings(ctx)
	if err != nil {
		return nil, err
	}
	if company != nil {
		st.Company = *company
	}
	if o != nil {
		st.Design = design.Merge(st.Design, *o)
	}
	return &render.Overrides{Company: &st.Company, Design: &st.Design}, nil
}

// filename keeps the quotation number safe for a Content-Disposition header.
func filename(number string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '-'
	}, number)
	if clean == "" {
		clean = "sem-numero"
	}
	return fmt.Sprintf("proposta-%s.pdf", clean)
}

func previewOptions(r *http.Request) screen.Options {
	q := r.URL.Query()
	return screen.Options{Print: q.Get("print") == "1", Fragment: q.Get("fragment") == "1"}
}

func (h *handler) listQuotations(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		fail(w, r, errNoStore)
		return
	}
	list, err := h.store.ListQuotations(r.Context(), Owner(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (h *handler) loadQuotation(w http.ResponseWriter, r *http.Request) (*quote.Quotation, bool) {
	if h.store == nil {
		fail(w, r, errNoStore)
		return nil, false
	}
	q, err := h.store.GetQuotation(r.Context(), Owner(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return nil, false
	}
	return q, true
}

func (h *handler) getQuotation(w http.ResponseWriter, r *http.Request) {
	if q, ok := h.loadQuotation(w, r); ok {
		writeJSON(w, r, http.StatusOK, q)
	}
}

func (h *handler) putQuotation(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		fail(w, r, errNoStore)
		return
	}
	var q quote.Quotation
	if !decode(w, r, &q) {
		return
	}
	q.ID = chi.URLParam(r, "id")
	if err := q.Validate(); err != nil {
		fail(w, r, err)
		return
	}
	if err := h.store.SaveQuotation(r.Context(), Owner(r.Context()), &q); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, q)
}

func (h *handler) quotationPDF(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadQuotation(w, r)
	if !ok {
		return
	}
	h.pdf(w, r, q, nil, nil)
}

func (h *handler) quotationPreview(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadQuotation(w, r)
	if !ok {
		return
	}
	h.preview(w, r, q, nil, nil)
}

func (h *handler) renderPDF(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Quotation == nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "campo quotation é obrigatório")
		return
	}
	h.pdf(w, r, req.Quotation, req.Company, req.Design)
}

func (h *handler) renderPreview(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Quotation == nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "campo quotation é obrigatório")
		return
	}
	h.preview(w, r, req.Quotation, req.Company, req.Design)
}

func (h *handler) pdf(w http.ResponseWriter, r *http.Request, q *quote.Quotation, company *quote.CompanyBranding, o *design.Override) {
	ov, err := h.overrides(r.Context(), company, o)
	if err != nil {
		fail(w, r, err)
		return
	}
	out, err := h.renderer.PDF(r.Context(), q, ov)
	if err != nil {
		fail(w, r, err)
		return
	}
	writePDF(w, r, filename(q.Number), out)
}

func (h *handler) preview(w http.ResponseWriter, r *http.Request, q *quote.Quotation, company *quote.CompanyBranding, o *design.Override) {
	ov, err := h.overrides(r.Context(), company, o)
	if err != nil {
		fail(w, r, err)
		return
	}
	out, err := h.renderer.HTML(r.Context(), q, ov, previewOptions(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeHTML(w, r, out)
}

func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.settings(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (h *handler) putSettings(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		fail(w, r, errNoStore)
		return
	}
	var req settingsRequest
	if !decode(w, r, &req) {
		return
	}
	st, err := h.settings(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if req.Company != nil {
		st.Company = *req.Company
	}
	if req.Design != nil {
		st.Design = design.Merge(st.Design, *req.Design)
	}
	if err := st.Design.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_design", err.Error())
		return
	}
	if err := h.store.SaveSettings(r.Context(), Owner(r.Context()), st); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}
