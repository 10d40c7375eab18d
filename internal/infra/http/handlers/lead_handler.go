package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/http/middleware"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/storage"
	"github.com/gauravmindaptix26/leaado-backend/internal/usecase"
)

const multipartMemory = 8 << 20

type LeadHandler struct {
	leads  *usecase.LeadIngestionUseCase
	store  storage.Store
	policy storage.UploadPolicy
	now    func() time.Time
}

func NewLeadHandler(leads *usecase.LeadIngestionUseCase, store storage.Store, policy storage.UploadPolicy) *LeadHandler {
	return &LeadHandler{
		leads:  leads,
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

type leadsResponse struct {
	Success bool           `json:"success"`
	Leads   []*entity.Lead `json:"leads"`
}

type leadResponse struct {
	Success bool         `json:"success"`
	Lead    *entity.Lead `json:"lead"`
}

type leadBatchResponse struct {
	Success bool           `json:"success"`
	Leads   []*entity.Lead `json:"leads"`
	Skipped int            `json:"skipped"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type importRequest struct {
	Link string `json:"link"`
}

type websitesRequest struct {
	Websites []string `json:"websites"`
}

func nonNil(leads []*entity.Lead) []*entity.Lead {
	if leads == nil {
		return []*entity.Lead{}
	}
	return leads
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.IdentityFrom(r.Context()).UserID

	leads, err := h.leads.List(r.Context(), owner)
	if err != nil {
		writeUseCaseError(w, r, err, "Unable to fetch leads")
		return
	}
	writeJSON(w, http.StatusOK, leadsResponse{Success: true, Leads: nonNil(leads)})
}

// Upload accepts up to policy.MaxFiles files in the "files" form field.
func (h *LeadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := middleware.IdentityFrom(ctx).UserID
	if owner == "" {
		writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if h.policy.MaxFileBytes > 0 && h.policy.MaxFiles > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.policy.MaxFileBytes*int64(h.policy.MaxFiles)+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeErrorResponse(w, http.StatusBadRequest, storage.ErrFileTooLarge.Error())
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if err := h.policy.Check(headers); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := storage.SaveUploads(ctx, h.store, headers, h.now)
	if err != nil {
		writeUseCaseError(w, r, err, "Unable to upload leads")
		return
	}

	leads, err := h.leads.Upload(ctx, owner, stored)
	if err != nil {
		for _, f := range stored {
			if rmErr := h.store.Remove(ctx, f.Path); rmErr != nil {
				zap.L().Warn("unable to remove orphaned upload", zap.String("path", f.Path), zap.Error(rmErr))
			}
		}
		writeUseCaseError(w, r, err, "Unable to upload leads")
		return
	}
	writeJSON(w, http.StatusCreated, leadsResponse{Success: true, Leads: nonNil(leads)})
}

func (h *LeadHandler) Import(w http.ResponseWriter, r *http.Request) {
	owner := middleware.IdentityFrom(r.Context()).UserID

	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.leads.ImportURL(r.Context(), owner, req.Link)
	if err != nil {
		writeUseCaseError(w, r, err, "Unable to import lead from URL")
		return
	}
	writeJSON(w, http.StatusCreated, leadResponse{Success: true, Lead: lead})
}

func (h *LeadHandler) Websites(w http.ResponseWriter, r *http.Request) {
	owner := middleware.IdentityFrom(r.Context()).UserID

	var req websitesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.leads.AddWebsites(r.Context(), owner, req.Websites)
	if err != nil {
		writeUseCaseError(w, r, err, "Unable to save websites")
		return
	}
	writeJSON(w, http.StatusCreated, leadBatchResponse{Success: true, Leads: nonNil(out.Leads), Skipped: out.Skipped})
}

// Bulk imports websites and pitches every new one before answering.
func (h *LeadHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	owner := middleware.IdentityFrom(r.Context()).UserID

	var req usecase.BulkImportInput
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.leads.BulkImport(r.Context(), owner, req)
	if err != nil {
		writeUseCaseError(w, r, err, "Unable to process websites")
		return
	}
	writeJSON(w, http.StatusCreated, leadBatchResponse{Success: true, Leads: nonNil(out.Leads), Skipped: out.Skipped})
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	owner := middleware.IdentityFrom(r.Context()).UserID

	var req usecase.StatusPatch
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.leads.UpdateStatus(r.Context(), owner, chi.URLParam(r, "id"), req)
	if err != nil {
		writeUseCaseError(w, r, err, "Unable to update lead")
		return
	}
	writeJSON(w, http.StatusOK, leadResponse{Success: true, Lead: lead})
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.IdentityFrom(r.Context()).UserID

	if err := h.leads.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, r, err, "Unable to delete lead")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Lead removed"})
}
