package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skateshop/storefront/internal/core/domain/content"
)

func (s *Server) listPosts(c echo.Context) error {
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	posts, err := s.contentSvc.ListPosts(c.Request().Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("listing posts failed")
		return echo.NewHTTPError(http.StatusBadGateway, "content unavailable")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"posts": posts})
}

func (s *Server) getPost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := s.contentSvc.GetPost(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		s.logger.WithField("slug", slug).WithError(err).Error("loading post failed")
		return echo.NewHTTPError(http.StatusBadGateway, "content unavailable")
	}
	return c.JSON(http.StatusOK, post)
}
