package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skateshop/storefront/internal/core/domain/catalog"
)

func (s *Server) getVariation(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()
	if c.QueryParam("refresh") == "true" {
		if err := s.catalogSvc.InvalidateVariation(ctx, id); err != nil {
			s.logger.WithField("variation_id", id).WithError(err).Warn("failed to invalidate cached variation")
		}
	}

	v, err := s.catalogSvc.GetVariation(ctx, id)
	if err != nil {
		return s.catalogError(err, id)
	}
	return c.JSON(http.StatusOK, toVariationResponse(v))
}

func (s *Server) getInventory(c echo.Context) error {
	id := c.Param("id")
	counts, err := s.catalogSvc.GetInventory(c.Request().Context(), id)
	if err != nil {
		return s.catalogError(err, id)
	}

	available := 0
	for _, ct := range counts {
		if ct.State == "IN_STOCK" {
			available += ct.Quantity
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"variation_id": id,
		"available":    available,
		"in_stock":     available > 0,
		"counts":       counts,
	})
}

func (s *Server) catalogError(err error, id string) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "catalog object not found")
	}
	s.logger.WithField("variation_id", id).WithError(err).Error("catalog lookup failed")
	return echo.NewHTTPError(http.StatusBadGateway, "catalog unavailable")
}
