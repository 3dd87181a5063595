package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// TeamHandler handles HTTP requests for team and membership operations.
type TeamHandler struct {
	teamService ports.TeamService
}

func NewTeamHandler(teamService ports.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

type createTeamRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type updateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=member manager"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member manager"`
}

type teamDetailResponse struct {
	*domain.Team
	Members []*domain.TeamMember `json:"members"`
}

// Create handles POST /api/v1/teams. The creator becomes the team owner.
func (h *TeamHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	team, err := h.teamService.Create(c.Request().Context(), actor, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, team)
}

// Get handles GET /api/v1/teams/:id, returning the team with its members.
func (h *TeamHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	detail, err := h.teamService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, teamDetailResponse{Team: detail.Team, Members: detail.Members})
}

// ListMine handles GET /api/v1/teams.
func (h *TeamHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	teams, err := h.teamService.ListMine(c.Request().Context(), actor, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, teams)
}

// Update handles PUT /api/v1/teams/:id.
func (h *TeamHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	team, err := h.teamService.Update(c.Request().Context(), actor, c.Param("id"), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, team)
}

// Delete handles DELETE /api/v1/teams/:id.
func (h *TeamHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.teamService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddMember handles POST /api/v1/teams/:id/members.
func (h *TeamHandler) AddMember(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := domain.TeamRole(req.Role)
	if req.Role == "" {
		role = domain.TeamRoleMember
	}

	member, err := h.teamService.AddMember(c.Request().Context(), actor, c.Param("id"), req.UserID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, member)
}

// RemoveMember handles DELETE /api/v1/teams/:id/members/:user_id. The team
// owner can never be removed.
func (h *TeamHandler) RemoveMember(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.teamService.RemoveMember(c.Request().Context(), actor, c.Param("id"), c.Param("user_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateMemberRole handles PATCH /api/v1/teams/:id/members/:user_id.
func (h *TeamHandler) UpdateMemberRole(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateMemberRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.teamService.UpdateMemberRole(c.Request().Context(), actor, c.Param("id"), c.Param("user_id"), domain.TeamRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}
