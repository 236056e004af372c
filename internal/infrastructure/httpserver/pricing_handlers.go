package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/domain/pricing"
)

type pricingItemRequest struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice"`
	Quantity  int      `json:"quantity"`
}

type pricingRequest struct {
	Items             []pricingItemRequest `json:"items"`
	FulfillmentMethod string               `json:"fulfillmentMethod"`
}

type checkoutRequest struct {
	pricingRequest
	RedirectURL string `json:"redirectUrl"`
}

// orderInput validates the request and returns priced items. With no items in the body the
// session's cart is priced instead.
func (s *Server) orderInput(c echo.Context, req pricingRequest) ([]pricing.Item, pricing.FulfillmentMethod, error) {
	method, err := pricing.ParseFulfillment(req.FulfillmentMethod)
	if err != nil {
		return nil, "", err
	}

	var items []pricing.Item
	if len(req.Items) == 0 {
		st, err := s.cartSvc.GetState(c.Request().Context())
		if err != nil {
			return nil, "", err
		}
		items = itemsFromCart(st)
	} else {
		items = make([]pricing.Item, 0, len(req.Items))
		for _, ri := range req.Items {
			price, err := cart.ParsePrice(ri.Price)
			if err != nil {
				return nil, "", err
			}
			it := pricing.Item{ID: ri.ID, Title: ri.Title, Price: price, Quantity: ri.Quantity}
			if ri.SalePrice != nil {
				sale, err := cart.ParsePrice(*ri.SalePrice)
				if err != nil {
					return nil, "", err
				}
				it.SalePrice = &sale
			}
			items = append(items, it)
		}
	}

	if err := pricing.Validate(items); err != nil {
		return nil, "", err
	}
	return items, method, nil
}

func itemsFromCart(st cart.State) []pricing.Item {
	items := make([]pricing.Item, 0, len(st.Items))
	for _, li := range st.Items {
		items = append(items, pricing.Item{ID: li.ID, Title: li.Title, Price: li.UnitPrice, Quantity: li.Quantity})
	}
	return items
}

// priceCart returns subtotal, shipping and the remotely calculated tax and total.
func (s *Server) priceCart(c echo.Context) error {
	var req pricingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, pricingResponse{Error: "invalid request body"})
	}
	items, method, err := s.orderInput(c, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, toPricingResponse(pricing.Failed(err)))
	}

	sum := s.pricingSvc.Price(c.Request().Context(), items, method)
	if !sum.Success {
		return c.JSON(http.StatusInternalServerError, toPricingResponse(sum))
	}
	return c.JSON(http.StatusOK, toPricingResponse(sum))
}

// checkout creates a hosted payment link for the order.
func (s *Server) checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, checkoutResponse{Error: "invalid request body"})
	}
	items, method, err := s.orderInput(c, req.pricingRequest)
	if err != nil {
		return c.JSON(http.StatusBadRequest, checkoutResponse{Error: err.Error()})
	}

	res := s.pricingSvc.Checkout(c.Request().Context(), items, method, req.RedirectURL)
	if !res.Success {
		return c.JSON(http.StatusInternalServerError, checkoutResponse{Error: res.Error})
	}
	return c.JSON(http.StatusOK, checkoutResponse{Success: true, URL: res.URL, OrderID: res.OrderID})
}
