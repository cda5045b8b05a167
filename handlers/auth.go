package handlers

import (
	"net/http"
	"time"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/utils"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyResponse struct {
	Valid     bool       `json:"valid"`
	User      verifyUser `json:"user"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

type verifyUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteError(w, r, apperror.Unauthorized("Unauthorized"))
		return
	}

	profile, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// VerifyToken echoes the identity and expiry of the bearer token. The guard
// has already rejected invalid tokens.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaims(r)
	if !ok {
		utils.WriteError(w, r, apperror.Unauthorized("Invalid token"))
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		utils.WriteError(w, r, apperror.Unauthorized("Invalid token"))
		return
	}

	resp := verifyResponse{
		Valid: true,
		User:  verifyUser{ID: userID, Email: claims.Email},
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
