package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandreach/internal/campaign"
	"brandreach/internal/gateway/tokens"
	"brandreach/pkg/platform/sentinel"
	"brandreach/pkg/requestcontext"
)

// Handler serves the locally persisted campaign-domain objects. These are the
// few API routes the gateway does not proxy upstream. Like every /api route,
// auth is the handler's own job: here that means requiring the access token
// the gateway injected after running the session gate.
type Handler struct {
	store  campaign.Store
	logger *slog.Logger
}

// New creates a campaign Handler.
func New(store campaign.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register registers the campaign routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/campaigns", func(r chi.Router) {
		r.Use(h.requireToken)
		r.Post("/", h.createCampaign)
		r.Get("/", h.listCampaigns)
		r.Get("/{id}", h.getCampaign)
		r.Put("/{id}", h.updateCampaign)
		r.Delete("/{id}", h.deleteCampaign)
		r.Get("/{id}/allocations", h.listAllocations)
		r.Get("/{id}/messages", h.listMessages)
	})
	r.Route("/api/allocations", func(r chi.Router) {
		r.Use(h.requireToken)
		r.Post("/", h.createAllocation)
		r.Delete("/{id}", h.deleteAllocation)
	})
	r.Route("/api/messages", func(r chi.Router) {
		r.Use(h.requireToken)
		r.Post("/", h.createMessage)
	})
}

func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(tokens.AccessHeader) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var c campaign.Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := requestcontext.Now(r.Context())
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = "draft"
	}
	if err := h.store.CreateCampaign(r.Context(), &c); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	brandID := r.URL.Query().Get("brandId")
	if brandID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "brandId is required"})
		return
	}
	out, err := h.store.ListCampaignsByBrand(r.Context(), brandID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if out == nil {
		out = []*campaign.Campaign{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) updateCampaign(w http.ResponseWriter, r *http.Request) {
	var c campaign.Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	c.ID = chi.URLParam(r, "id")
	c.UpdatedAt = requestcontext.Now(r.Context())
	if err := h.store.UpdateCampaign(r.Context(), &c); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCampaign(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAllocations(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListAllocationsByCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if out == nil {
		out = []*campaign.Allocation{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createAllocation(w http.ResponseWriter, r *http.Request) {
	var a campaign.Allocation
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = requestcontext.Now(r.Context())
	if err := h.store.CreateAllocation(r.Context(), &a); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) deleteAllocation(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAllocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListMessagesByCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if out == nil {
		out = []*campaign.Message{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createMessage(w http.ResponseWriter, r *http.Request) {
	var m campaign.Message
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	if err := h.store.CreateMessage(r.Context(), &m); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, sentinel.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict"})
	default:
		h.logger.ErrorContext(r.Context(), "campaign store error",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
