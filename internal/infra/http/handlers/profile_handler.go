package handlers

import (
	"net/http"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/http/middleware"
	"github.com/gauravmindaptix26/leaado-backend/internal/usecase"
)

type ProfileHandler struct {
	profiles *usecase.ProfileUseCase
}

func NewProfileHandler(profiles *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type profileResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    profileUser `json:"user"`
}

func toProfileUser(u *entity.User) profileUser {
	return profileUser{ID: u.ID, FullName: u.FullName, Email: u.Email, Phone: u.Mobile}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.profiles.Get(r.Context(), middleware.IdentityFrom(r.Context()).UserID)
	if err != nil {
		writeUseCaseError(w, r, err, "Unable to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Success: true, User: toProfileUser(u)})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req usecase.ProfileUpdateInput
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	u, err := h.profiles.Update(r.Context(), middleware.IdentityFrom(r.Context()).UserID, req)
	if err != nil {
		writeUseCaseError(w, r, err, "Unable to update profile")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    toProfileUser(u),
	})
}
