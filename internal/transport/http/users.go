package http

import (
	"context"
	"net/http"

	"github.com/riyqnn/pulsee/internal/app"
	"github.com/riyqnn/pulsee/internal/domain"
)

type UserService interface {
	CreateUser(ctx context.Context, in app.CreateUserInput) (domain.User, error)
	UpdateUserProfile(ctx context.Context, in app.UpdateUserProfileInput) (domain.User, error)
}

// HandleCreateUser registers a profile for the signer.
func HandleCreateUser(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req createUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := svc.CreateUser(r.Context(), app.CreateUserInput{
			Owner:    signer,
			Username: req.Username,
			Email:    req.Email,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newUserResponse(user))
	}
}

// HandleUpdateUserProfile applies a partial profile update for the signer.
func HandleUpdateUserProfile(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := signerAddress(w, r)
		if !ok {
			return
		}

		var req updateUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := svc.UpdateUserProfile(r.Context(), app.UpdateUserProfileInput{
			Caller:   signer,
			Username: req.Username,
			Email:    req.Email,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}
