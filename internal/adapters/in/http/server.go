// Package http is the REST adapter of the ordering service.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handler contracts, one per use case.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}
	UpdatePaymentStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdatePaymentStatusCommand) (*order.Order, error)
	}
	UpdateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderCommand) (*order.Order, error)
	}
	ForceOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ForceOrderStatusCommand) (*order.Order, error)
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
	GetOrderByNumberHandler interface {
		Handle(ctx context.Context, query queries.GetOrderByNumberQuery) (queries.OrderView, error)
	}
	GetCustomerOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetCustomerOrdersQuery) ([]queries.OrderView, error)
	}
	ListAdminOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListAdminOrdersQuery) ([]queries.OrderView, error)
	}
	GetOrderStatsHandler interface {
		Handle(ctx context.Context, query queries.GetOrderStatsQuery) (queries.OrderStatsView, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder         CreateOrderHandler
	UpdateOrderStatus   UpdateOrderStatusHandler
	UpdatePaymentStatus UpdatePaymentStatusHandler
	UpdateOrder         UpdateOrderHandler
	ForceOrderStatus    ForceOrderStatusHandler
	CancelOrder         CancelOrderHandler
	GetOrderByNumber    GetOrderByNumberHandler
	GetCustomerOrders   GetCustomerOrdersHandler
	ListAdminOrders     ListAdminOrdersHandler
	GetOrderStats       GetOrderStatsHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{handlers: handlers, logger: logger.With("component", "http")}
}

// CreateOrder handles POST /orders - checkout.
func (s *Server) CreateOrder(c echo.Context) error {
	var body NewOrder
	if err := c.Bind(&body); err != nil {
		return invalidBody(c)
	}

	cmd, err := commands.NewCreateOrderCommand(
		PrincipalFrom(c),
		body.RestaurantID,
		body.commandItems(),
		body.DeliveryAddress, body.ContactName, body.ContactPhone,
		body.PaymentMethod,
		body.SpecialInstructions, body.TransferProof,
		0,
	)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	o, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	return c.JSON(http.StatusCreated, newCreatedOrder(o))
}

// ListOrders handles GET /orders - the admin search.
func (s *Server) ListOrders(c echo.Context, params ListOrdersParams) error {
	input := queries.AdminOrderFilterInput{
		Status:       deref(params.Status),
		RestaurantID: deref(params.Restaurant),
		DateFrom:     deref(params.DateFrom),
		DateTo:       deref(params.DateTo),
		Search:       deref(params.Search),
	}
	if params.Limit != nil {
		input.Limit = *params.Limit
	}
	if params.Offset != nil {
		input.Offset = *params.Offset
	}

	query, err := queries.NewListAdminOrdersQuery(PrincipalFrom(c), input)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	views, err := s.handlers.ListAdminOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	return c.JSON(http.StatusOK, newOrderResponses(views))
}

// GetMyOrders handles GET /orders/mine.
func (s *Server) GetMyOrders(c echo.Context) error {
	query, err := queries.NewGetCustomerOrdersQuery(PrincipalFrom(c))
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	views, err := s.handlers.GetCustomerOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	return c.JSON(http.StatusOK, newOrderResponses(views))
}

// GetOrderStats handles GET /orders/stats.
func (s *Server) GetOrderStats(c echo.Context) error {
	stats, err := s.handlers.GetOrderStats.Handle(c.Request().Context(), queries.NewGetOrderStatsQuery(PrincipalFrom(c)))
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	return c.JSON(http.StatusOK, newOrderStats(stats))
}

// GetOrderByNumber handles GET /orders/{orderNumber} - public tracking. A
// bearer token is optional; it unlocks the full order for its owner.
func (s *Server) GetOrderByNumber(c echo.Context, orderNumber string) error {
	query, err := queries.NewGetOrderByNumberQuery(PrincipalFrom(c), orderNumber)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	view, err := s.handlers.GetOrderByNumber.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	return c.JSON(http.StatusOK, newOrderResponse(view))
}

// UpdateOrder handles PATCH /orders/{id}. Both fields are validated before any
// write; when both are present they are applied in a single transaction.
func (s *Server) UpdateOrder(c echo.Context, id string) error {
	var body OrderUpdate
	if err := c.Bind(&body); err != nil {
		return invalidBody(c)
	}

	if strings.TrimSpace(body.Status) == "" && strings.TrimSpace(body.PaymentStatus) == "" {
		return s.writeError(c, errs.NewValueIsRequiredError("status"), patchMapping)
	}

	ctx := c.Request().Context()
	principal := PrincipalFrom(c)
	hasStatus := strings.TrimSpace(body.Status) != ""
	hasPayment := strings.TrimSpace(body.PaymentStatus) != ""

	var statusCmd commands.UpdateOrderStatusCommand
	var paymentCmd commands.UpdatePaymentStatusCommand
	var statusErr, paymentErr error
	if hasStatus {
		statusCmd, statusErr = commands.NewUpdateOrderStatusCommand(principal, id, body.Status, body.StatusNotes)
	}
	if hasPayment {
		paymentCmd, paymentErr = commands.NewUpdatePaymentStatusCommand(principal, id, body.PaymentStatus, body.StatusNotes)
	}
	if err := errors.Join(statusErr, paymentErr); err != nil {
		return s.writeError(c, err, patchMapping)
	}

	var updated *order.Order
	var err error
	switch {
	case hasStatus && hasPayment:
		var cmd commands.UpdateOrderCommand
		if cmd, err = commands.NewUpdateOrderCommand(statusCmd, paymentCmd); err == nil {
			updated, err = s.handlers.UpdateOrder.Handle(ctx, cmd)
		}
	case hasStatus:
		updated, err = s.handlers.UpdateOrderStatus.Handle(ctx, statusCmd)
	default:
		updated, err = s.handlers.UpdatePaymentStatus.Handle(ctx, paymentCmd)
	}
	if err != nil {
		return s.writeError(c, err, patchMapping)
	}

	return c.JSON(http.StatusOK, newAggregateResponse(updated))
}

// CancelOrder handles POST /orders/{id}/cancel.
func (s *Server) CancelOrder(c echo.Context, id string) error {
	var body Cancellation
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return invalidBody(c)
		}
	}

	cmd, err := commands.NewCancelOrderCommand(PrincipalFrom(c), id, body.Reason)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	o, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	return c.JSON(http.StatusOK, newAggregateResponse(o))
}

// ForceOrderStatus handles POST /orders/{id}/force-status.
func (s *Server) ForceOrderStatus(c echo.Context, id string) error {
	var body ForceStatus
	if err := c.Bind(&body); err != nil {
		return invalidBody(c)
	}

	cmd, err := commands.NewForceOrderStatusCommand(PrincipalFrom(c), id, body.Status, body.Note)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	o, err := s.handlers.ForceOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err, defaultMapping)
	}

	return c.JSON(http.StatusOK, newAggregateResponse(o))
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: "Invalid request body"})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
