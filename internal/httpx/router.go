package httpx

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/aggregate"
	"github.com/AngelCh415/leadpane/internal/crm"
	"github.com/AngelCh415/leadpane/internal/models"
	"github.com/AngelCh415/leadpane/internal/utils"
)

const (
	maxBodyBytes = 1 << 20
	maxChartSide = 4000
)

// leadRow is a lead as shown in the table view.
type leadRow struct {
	models.Lead
	Badge string `json:"badge,omitempty"`
}

type page[T any] struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Items  []T `json:"items"`
}

type handlers struct {
	log *zap.Logger
	svc *crm.Service
}

func NewRouter(log *zap.Logger, svc *crm.Service) http.Handler {
	h := &handlers{log: log, svc: svc}
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", h.ready)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.dashboard)
		r.Get("/leads", h.listLeads)
		r.Post("/leads", h.createLead)
		r.Get("/activities", h.listActivities)
		r.Post("/activities", h.logActivity)
		r.Get("/accounts", h.listAccounts)
		r.Post("/accounts", h.addAccount)
		r.Get("/charts/{name}.svg", h.chart)
	})
	return mux
}

func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Leads(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(200)
	w.Write([]byte("ready"))
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"taken_at":      snap.TakenAt,
		"rejected_rows": snap.Rejected,
		"dashboard":     snap.Dashboard,
	})
}

func (h *handlers) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.svc.Leads(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	matched := crm.Search(leads, q.Get("q"))
	rows := make([]leadRow, len(matched))
	for i, l := range matched {
		rows[i] = leadRow{Lead: l, Badge: crm.StatusBadge(l.Status)}
	}
	writeJSON(w, http.StatusOK, paginate(rows, q.Get("limit"), q.Get("offset")))
}

func (h *handlers) createLead(w http.ResponseWriter, r *http.Request) {
	var in models.LeadInput
	if !h.decode(w, r, &in) {
		return
	}
	lead, err := h.svc.CreateLead(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, leadRow{Lead: lead, Badge: crm.StatusBadge(lead.Status)})
}

func (h *handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := h.svc.Activities(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, paginate(acts, q.Get("limit"), q.Get("offset")))
}

func (h *handlers) logActivity(w http.ResponseWriter, r *http.Request) {
	var in models.ActivityInput
	if !h.decode(w, r, &in) {
		return
	}
	act, err := h.svc.LogActivity(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, act)
}

func (h *handlers) listAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := h.svc.Accounts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, paginate(accts, q.Get("limit"), q.Get("offset")))
}

func (h *handlers) addAccount(w http.ResponseWriter, r *http.Request) {
	var in models.AccountInput
	if !h.decode(w, r, &in) {
		return
	}
	acct, err := h.svc.AddAccount(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (h *handlers) chart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, height := side(q.Get("width")), side(q.Get("height"))
	out, err := h.svc.RenderChart(r.Context(), chi.URLParam(r, "name"), width, height)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(out)
}

// side parses a chart dimension. Missing or bad values are 0, which lets the
// renderer pick its default.
func side(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsNaN(v) {
		return 0
	}
	return min(v, maxChartSide)
}

func paginate[T any](rows []T, limit, offset string) page[T] {
	l, o := aggregate.ClampLimitOffset(aggregate.AtoiDef(limit, 100), aggregate.AtoiDef(offset, 0), len(rows))
	return page[T]{Total: len(rows), Limit: l, Offset: o, Items: aggregate.Paginate(rows, l, o)}
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, crm.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, crm.ErrUnknownChart):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.String("rid", utils.RID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
