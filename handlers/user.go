package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashdeck-api/services"
	"github.com/andrewpaige1/flashdeck-api/utils"
)

type createUserRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=6"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
	AppleID  *string `json:"appleId" validate:"omitempty,max=255"`
	GoogleID *string `json:"googleId" validate:"omitempty,max=255"`
	Provider string  `json:"provider" validate:"omitempty,oneof=email apple google"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := h.decode(r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), services.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		AppleID:  req.AppleID,
		GoogleID: req.GoogleID,
		Provider: req.Provider,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, user)
}
