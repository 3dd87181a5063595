package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type userListResponse struct {
	Items []any `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial profile update to the authenticated user.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor, ports.UpdateProfileInput{
		Username: req.Username,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword verifies the current password and applies a new one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// Get returns a user's public profile by id.
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List returns a page of users. Admin only (gated by RBAC middleware).
func (h *UserHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	includeInactive, _ := strconv.ParseBool(c.QueryParam("include_inactive"))

	users, total, err := h.userService.List(c.Request().Context(), includeInactive, page, limit)
	if err != nil {
		return err
	}

	items := make([]any, 0, len(users))
	for _, u := range users {
		items = append(items, u)
	}
	return c.JSON(http.StatusOK, userListResponse{Items: items, Total: total, Page: page, Limit: limit})
}

// SetActive toggles a user's active flag. Admin only.
func (h *UserHandler) SetActive(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_active is required")
	}

	user, err := h.userService.SetActive(c.Request().Context(), actor, c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user account. Admin only.
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
