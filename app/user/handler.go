// Package user handles login, the public contact card and profile
// updates for the single admin account.
package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/manukanwetan/umkm-api/app/api"
	"github.com/manukanwetan/umkm-api/app/auth"
	"github.com/manukanwetan/umkm-api/models"
)

// fallbackContact is returned whenever the admin account cannot be read.
// The frontend renders this card unconditionally, so the endpoint always
// carries data.
var fallbackContact = ContactResponse{
	Telp:      "085156203867",
	Email:     "manukan.wetan@gmail.com",
	Instagram: "manukan_wetan",
}

type UserProvider interface {
	GetByUsername(username string) (*models.User, error)
	GetFirst() (*models.User, error)
	Update(user *models.User) error
}

type UserHandler struct {
	users    UserProvider
	tokens   *auth.Tokens
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUserHandler(users UserProvider, tokens *auth.Tokens, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=5"`
}

func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid credentials payload")
		return
	}

	// A wrong username and a wrong password produce the same response,
	// leaking nothing about which one failed.
	user, err := h.users.GetByUsername(input.Username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			api.Message(w, http.StatusNotFound, "wrong username or password")
			return
		}
		api.Message(w, http.StatusInternalServerError, "login failed")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		api.Message(w, http.StatusNotFound, "wrong username or password")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "login failed")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"message": "login successful",
	})
}

type ContactResponse struct {
	Telp      string `json:"telp"`
	Email     string `json:"email"`
	Instagram string `json:"instagram"`
}

func (h *UserHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetFirst()
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			api.JSON(w, http.StatusNotFound, api.Response{
				Message: "admin contact not found",
				Data:    fallbackContact,
			})
			return
		}
		api.JSON(w, http.StatusInternalServerError, api.Response{
			Message: "failed to fetch admin contact",
			Data:    fallbackContact,
		})
		return
	}
	api.JSON(w, http.StatusOK, api.Response{
		Message: "admin contact fetched",
		Data: ContactResponse{
			Telp:      user.Telp,
			Email:     user.Email,
			Instagram: user.Instagram,
		},
	})
}

type updateRequest struct {
	Telp            *string `json:"telp"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Instagram       *string `json:"instagram"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" validate:"omitempty,min=5"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Telp      string    `json:"telp"`
	Email     string    `json:"email"`
	Instagram string    `json:"instagram"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		api.Message(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var input updateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid profile payload")
		return
	}

	// Partial update: only supplied fields are written.
	if input.Telp != nil {
		user.Telp = *input.Telp
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Instagram != nil {
		user.Instagram = *input.Instagram
	}
	if input.NewPassword != "" {
		if input.CurrentPassword == "" ||
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)) != nil {
			api.Message(w, http.StatusBadRequest, "current password is incorrect")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			api.Message(w, http.StatusInternalServerError, "failed to update profile")
			return
		}
		user.Password = string(hash)
	}

	if err := h.users.Update(user); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "profile updated", Data: ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Telp:      user.Telp,
		Email:     user.Email,
		Instagram: user.Instagram,
		UpdatedAt: user.UpdatedAt,
	}})
}
