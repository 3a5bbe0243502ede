package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/middleware"
	"tienda/internal/models"
	"tienda/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     newValidator(),
		logger:       logger,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	orderRoutes := router.Group("/pedidos", authRequired)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", middleware.Require(middleware.PermOrdersReadAll), h.HandleListOrders)
	// Registered before /:id so the literal segment wins.
	orderRoutes.Get("/mis-pedidos", h.HandleListMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Patch("/:id/estado", middleware.Require(middleware.PermOrdersUpdateStatus), h.HandleUpdateStatus)
}

// HandleCreateOrder places an order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req services.CreateOrderInput
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.orderService.CreateOrder(c.UserContext(), p.UserID, req)
	if err != nil {
		return respondError(c, h.logger, "Failed to create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListOrders lists every order, optionally filtered by ?estado.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	var status *models.OrderStatus
	if raw := c.Query("estado"); raw != "" {
		s := models.OrderStatus(raw)
		if !services.IsValidOrderStatus(s) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid estado: "+raw)
		}
		status = &s
	}
	orders, err := h.orderService.ListOrders(c.UserContext(), status)
	if err != nil {
		return respondError(c, h.logger, "Failed to list orders", err)
	}
	return c.JSON(orders)
}

// HandleListMyOrders lists the caller's orders.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orders, err := h.orderService.ListUserOrders(c.UserContext(), p.UserID)
	if err != nil {
		return respondError(c, h.logger, "Failed to list orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrder returns an order owned by the caller, or any order for admins.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orderService.GetOrderForPrincipal(c.UserContext(), id, p)
	if err != nil {
		return respondError(c, h.logger, "Failed to retrieve order", err)
	}
	return c.JSON(order)
}

// HandleUpdateStatus moves an order to the requested status.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateStatusInput
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.orderService.UpdateStatus(c.UserContext(), id, p.UserID, req)
	if err != nil {
		return respondError(c, h.logger, "Failed to update order status", err)
	}
	return c.JSON(order)
}
