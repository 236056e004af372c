package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/domain/money"
)

type cartActionRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type cartItemData struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

func (d cartItemData) lineItem() (cart.LineItem, error) {
	if d.ID == "" {
		return cart.LineItem{}, cart.ErrMissingItemID
	}
	qty := 1
	if d.Quantity != nil {
		qty = *d.Quantity
	}
	if !cart.ValidQuantity(qty) {
		return cart.LineItem{}, cart.ErrInvalidQuantity
	}
	var price money.Money
	if d.Price != nil {
		p, err := cart.ParsePrice(*d.Price)
		if err != nil {
			return cart.LineItem{}, err
		}
		price = p
	}
	return cart.LineItem{ID: d.ID, Title: d.Title, UnitPrice: price, Quantity: qty}, nil
}

// cartAction dispatches {action, data} to the session's cart.
func (s *Server) cartAction(c echo.Context) error {
	var req cartActionRequest
	if err := c.Bind(&req); err != nil {
		return s.cartFailure(c, http.StatusBadRequest, "invalid request body")
	}
	action, err := cart.ParseAction(req.Action)
	if err != nil {
		return s.cartFailure(c, http.StatusBadRequest, err.Error())
	}

	var data cartItemData
	if action != cart.ActionClear && action != cart.ActionGetState {
		if len(req.Data) == 0 || json.Unmarshal(req.Data, &data) != nil {
			return s.cartFailure(c, http.StatusBadRequest, "invalid cart data")
		}
		if data.ID == "" {
			return s.cartFailure(c, http.StatusBadRequest, cart.ErrMissingItemID.Error())
		}
	}

	ctx := c.Request().Context()
	var state cart.State
	switch action {
	case cart.ActionAdd:
		item, verr := data.lineItem()
		if verr != nil {
			return s.cartFailure(c, http.StatusBadRequest, verr.Error())
		}
		state, err = s.cartSvc.AddItem(ctx, item)
	case cart.ActionRemove:
		state, err = s.cartSvc.RemoveItem(ctx, data.ID)
	case cart.ActionUpdate:
		if data.Quantity == nil || !cart.ValidQuantity(*data.Quantity) {
			return s.cartFailure(c, http.StatusBadRequest, cart.ErrInvalidQuantity.Error())
		}
		state, err = s.cartSvc.UpdateQuantity(ctx, data.ID, *data.Quantity)
	case cart.ActionClear:
		state, err = s.cartSvc.Clear(ctx)
	case cart.ActionGetState:
		state, err = s.cartSvc.GetState(ctx)
	}
	if err != nil {
		if errors.Is(err, cart.ErrMissingSession) {
			return s.cartFailure(c, http.StatusBadRequest, err.Error())
		}
		s.logger.WithFields(logrus.Fields{"action": action}).WithError(err).Error("cart action failed")
		return s.cartFailure(c, http.StatusInternalServerError, "cart action failed")
	}

	return c.JSON(http.StatusOK, cartResponse{Success: true, CartState: toCartStateResponse(state)})
}

func (s *Server) cartFailure(c echo.Context, code int, msg string) error {
	return c.JSON(code, cartResponse{Success: false, Error: msg})
}
