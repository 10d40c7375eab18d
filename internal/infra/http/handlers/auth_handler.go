package handlers

import (
	"fmt"
	"net/http"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/http/middleware"
	"github.com/gauravmindaptix26/leaado-backend/internal/usecase"
)

type AuthHandler struct {
	signup *usecase.SignupUseCase
	login  *usecase.LoginUseCase
}

func NewAuthHandler(signup *usecase.SignupUseCase, login *usecase.LoginUseCase) *AuthHandler {
	return &AuthHandler{signup: signup, login: login}
}

type sessionUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    sessionUser `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req usecase.SignupInput
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if _, err := h.signup.Execute(r.Context(), req); err != nil {
		writeUseCaseError(w, r, err, "Internal error")
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Success: true, Message: "Signup success"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginInput
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.login.Execute(r.Context(), req)
	if err != nil {
		writeUseCaseError(w, r, err, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   out.Token,
		User:    toSessionUser(out.User),
	})
}

func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Welcome %s !", id.Email),
	})
}

func toSessionUser(u *entity.User) sessionUser {
	return sessionUser{ID: u.ID, FullName: u.FullName, Email: u.Email}
}
