package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// ctxActor rebuilds the acting identity from the claims injected by the Auth
// middleware. A missing user_id means the middleware did not run on this
// route; fail fast with 401 rather than reaching a service with an empty
// actor.
func ctxActor(c echo.Context) (domain.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)

	return domain.Actor{ID: userID, Username: username, Role: role}, nil
}

// pageParams reads ?page= and ?limit= with sane defaults.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	return page, limit
}
