package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ListOrdersParams are the query parameters of GET /orders.
type ListOrdersParams struct {
	Status     *string
	Restaurant *string
	DateFrom   *string
	DateTo     *string
	Search     *string
	Limit      *int
	Offset     *int
}

// ServerInterface mirrors the operations of openapi.yaml.
type ServerInterface interface {
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// (GET /orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (GET /orders/mine)
	GetMyOrders(ctx echo.Context) error
	// (GET /orders/stats)
	GetOrderStats(ctx echo.Context) error
	// (GET /orders/{id})
	GetOrderByNumber(ctx echo.Context, orderNumber string) error
	// (PATCH /orders/{id})
	UpdateOrder(ctx echo.Context, id string) error
	// (POST /orders/{id}/cancel)
	CancelOrder(ctx echo.Context, id string) error
	// (POST /orders/{id}/force-status)
	ForceOrderStatus(ctx echo.Context, id string) error
}

// ServerInterfaceWrapper converts echo contexts to typed parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams
	query := ctx.QueryParams()

	for _, p := range []struct {
		name string
		dest any
	}{
		{"status", &params.Status},
		{"restaurant", &params.Restaurant},
		{"dateFrom", &params.DateFrom},
		{"dateTo", &params.DateTo},
		{"search", &params.Search},
		{"limit", &params.Limit},
		{"offset", &params.Offset},
	} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, query, p.dest); err != nil {
			return badParameter(ctx, p.name, err)
		}
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetMyOrders(ctx echo.Context) error {
	return w.Handler.GetMyOrders(ctx)
}

func (w *ServerInterfaceWrapper) GetOrderStats(ctx echo.Context) error {
	return w.Handler.GetOrderStats(ctx)
}

func (w *ServerInterfaceWrapper) GetOrderByNumber(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return badParameter(ctx, "id", err)
	}
	return w.Handler.GetOrderByNumber(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdateOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return badParameter(ctx, "id", err)
	}
	return w.Handler.UpdateOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return badParameter(ctx, "id", err)
	}
	return w.Handler.CancelOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) ForceOrderStatus(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return badParameter(ctx, "id", err)
	}
	return w.Handler.ForceOrderStatus(ctx, id)
}

func bindID(ctx echo.Context) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	return id, err
}

func badParameter(ctx echo.Context, name string, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("invalid format for parameter %s: %s", name, err),
		Fields:  []string{name},
	})
}

// EchoRouter is the part of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RouteMiddleware holds the per-route middleware chains.
type RouteMiddleware struct {
	// Validate runs on every contract route.
	Validate echo.MiddlewareFunc
	// CreateLimit throttles order creation.
	CreateLimit echo.MiddlewareFunc
}

// RegisterHandlers adds every operation of si to router. Routes that need a
// caller reject anonymous requests before their body is validated.
func RegisterHandlers(router EchoRouter, si ServerInterface, mw RouteMiddleware) {
	w := &ServerInterfaceWrapper{Handler: si}

	public := chain(mw.Validate)
	authed := chain(RequireAuthenticated, mw.Validate)

	router.POST("/orders", w.CreateOrder, chain(RequireAuthenticated, mw.CreateLimit, mw.Validate)...)
	router.GET("/orders", w.ListOrders, authed...)
	router.GET("/orders/mine", w.GetMyOrders, authed...)
	router.GET("/orders/stats", w.GetOrderStats, authed...)
	router.GET("/orders/:id", w.GetOrderByNumber, public...)
	router.PATCH("/orders/:id", w.UpdateOrder, authed...)
	router.POST("/orders/:id/cancel", w.CancelOrder, authed...)
	router.POST("/orders/:id/force-status", w.ForceOrderStatus, authed...)
}

func chain(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	result := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			result = append(result, m)
		}
	}
	return result
}
