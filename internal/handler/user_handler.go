package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/greenworld/garden-backend/internal/auth"
	"github.com/greenworld/garden-backend/internal/middleware"
	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users  service.UserService
	tokens *auth.TokenManager
}

func NewUserHandler(users service.UserService, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

type RegisterRequest struct {
	FullName string  `json:"fullName"`
	Sex      *string `json:"sex"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
}

type UserResponse struct {
	ID        uint64  `json:"id"`
	FullName  string  `json:"fullName"`
	Sex       *string `json:"sex,omitempty"`
	Email     string  `json:"email"`
	Coins     int64   `json:"coins"`
	CreatedAt string  `json:"createdAt"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "fullName, email and password are required"))
	}
	user, err := h.users.Register(c.Request().Context(), service.RegisterInput{
		FullName: req.FullName,
		Sex:      req.Sex,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("email_taken", err.Error()))
		case errors.Is(err, service.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("weak_password", err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to register"))
		}
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

type LoginRequest struct {
	Email    string `json:"email" form:"username"`
	Password string `json:"password" form:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid credentials payload"))
	}
	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "incorrect email or password"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to authenticate"))
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to issue token"))
	}
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondEconomyError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Sex      *string `json:"sex"`
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	user, err := h.users.UpdateProfile(c.Request().Context(), middleware.UserID(c), service.ProfileUpdate{
		FullName: req.FullName,
		Sex:      req.Sex,
	})
	if err != nil {
		return respondEconomyError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return respondEconomyError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Sex:       u.Sex,
		Email:     u.Email,
		Coins:     u.Coins,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
