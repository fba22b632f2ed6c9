package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

const currentUserKey = "current_user"

type Credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Handler serves the /auth routes.
type Handler struct {
	users  user.Repository
	hasher *Hasher
	signer *Signer
	log    zerolog.Logger
}

func NewHandler(users user.Repository, hasher *Hasher, signer *Signer, log zerolog.Logger) *Handler {
	return &Handler{users: users, hasher: hasher, signer: signer, log: log}
}

// SetCurrentUser stores the authenticated caller on the request context.
func SetCurrentUser(c echo.Context, u *user.User) { c.Set(currentUserKey, u) }

// CurrentUser returns the caller stored by SetCurrentUser, or nil.
func CurrentUser(c echo.Context) *user.User {
	u, _ := c.Get(currentUserKey).(*user.User)
	return u
}

func bindCredentials(c echo.Context) (Credentials, error) {
	var req Credentials
	if err := c.Bind(&req); err != nil {
		return req, apperror.Validation("invalid request")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return req, apperror.Validation("username and password are required")
	}
	return req, nil
}

// ===== Register =====
func (h *Handler) Register(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		return apperror.Internal(err)
	}

	// Default role is always "user"; admins come from the adminutil tools.
	err = h.users.InsertUser(c.Request().Context(), &user.User{
		Username: req.Username,
		Password: hashed,
		Role:     user.RoleUser,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return apperror.Conflict("Username already registered")
	}
	if err != nil {
		return apperror.StorageUnavailable(err)
	}

	h.log.Info().Str("username", req.Username).Msg("user registered")
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

// ===== Login =====
func (h *Handler) Login(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}

	u, err := h.users.FindUser(c.Request().Context(), req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperror.StorageUnavailable(err)
	}
	if u == nil || !h.hasher.Verify(req.Password, u.Password) {
		return apperror.Validation("Incorrect username or password")
	}

	token, err := h.signer.Issue(u.Username)
	if err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the currently authenticated user's profile
func (h *Handler) Me(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return apperror.Unauthenticated()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"username": u.Username,
		"role":     u.Role,
	})
}
