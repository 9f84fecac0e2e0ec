package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/envelope"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

const badCredentials = "Invalid user name or password"

// CredentialsRequest is the body of register and login requests
type CredentialsRequest struct {
	UserName string `json:"userName" validate:"required,min=3,max=64"`
	// bcrypt ignores bytes past 72
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserDTO is the public view of a user
type UserDTO struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"userName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse carries an issued token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserName  string    `json:"userName"`
	Roles     []string  `json:"roles"`
}

// MeResponse describes the caller
type MeResponse struct {
	UserID   int64    `json:"userId"`
	UserName string   `json:"userName"`
	Roles    []string `json:"roles"`
}

func (a *API) register(r *http.Request, _ auth.RequestContext) *envelope.Response {
	var in CredentialsRequest
	if _, resp := a.decode(r, &in); resp != nil {
		return resp
	}

	ctx := r.Context()
	taken, err := a.repos.Users.Exists(ctx, repository.Where(repository.Eq("user_name", in.UserName)), true)
	if err != nil {
		return a.failure(r, err)
	}
	if taken {
		return envelope.New().Fail(http.StatusBadRequest, fmt.Sprintf("User with name %s already exists", in.UserName))
	}

	hash, err := auth.HashPassword(in.Password, a.opts.BcryptCost)
	if err != nil {
		return a.failure(r, err)
	}
	user, err := a.repos.Users.Create(ctx, domain.User{
		UserName:     in.UserName,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		CreatedAt:    a.now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent registration
		return envelope.New().Fail(http.StatusBadRequest, fmt.Sprintf("User with name %s already exists", in.UserName))
	}
	if err != nil {
		return a.failure(r, err)
	}
	return envelope.New().Succeed(http.StatusOK, UserDTO{
		ID:        user.ID,
		UserName:  user.UserName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

func (a *API) login(r *http.Request, _ auth.RequestContext) *envelope.Response {
	if a.tokens == nil {
		return envelope.New().Fail(http.StatusServiceUnavailable, "Authentication is not configured")
	}
	var in CredentialsRequest
	if _, resp := a.decode(r, &in); resp != nil {
		return resp
	}

	user, err := a.repos.Users.Get(r.Context(), repository.Where(repository.Eq("user_name", in.UserName)), true)
	if errors.Is(err, repository.ErrNotFound) {
		return envelope.New().Fail(http.StatusUnauthorized, badCredentials)
	}
	if err != nil {
		return a.failure(r, err)
	}
	if err := auth.CheckPassword(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return envelope.New().Fail(http.StatusUnauthorized, badCredentials)
		}
		return a.failure(r, err)
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		return a.failure(r, err)
	}
	return envelope.New().Succeed(http.StatusOK, LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		UserName:  user.UserName,
		Roles:     []string{user.Role},
	})
}

func (a *API) me(_ *http.Request, rc auth.RequestContext) *envelope.Response {
	roles := rc.Roles
	if roles == nil {
		roles = []string{}
	}
	return envelope.New().Succeed(http.StatusOK, MeResponse{UserID: rc.UserID, UserName: rc.UserName, Roles: roles})
}
