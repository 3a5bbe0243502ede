package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/middleware"
	"tienda/internal/services"
)

// CartHandler serves per-user shopping carts.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    newValidator(),
		logger:      logger,
	}
}

type addCartItemRequest struct {
	ProductID uint `json:"productoId" validate:"required"`
	Quantity  int  `json:"cantidad" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int `json:"cantidad" validate:"required,gt=0"`
}

// RegisterRoutes registers the cart routes. Callers reach their own cart only,
// unless they hold carts:any.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	owner := middleware.RequireSelfOr("usuarioId", middleware.PermCartsAny)
	router.Post("/carrito/:usuarioId", authRequired, owner, h.HandleAddItem)
	router.Get("/carrito/:usuarioId", authRequired, owner, h.HandleGetCart)
	router.Delete("/carrito/:usuarioId", authRequired, owner, h.HandleClearCart)
	router.Patch("/carrito/:usuarioId/:id", authRequired, owner, h.HandleUpdateItem)
	router.Delete("/carrito/:usuarioId/:id", authRequired, owner, h.HandleRemoveItem)
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID, err := paramID(c, "usuarioId")
	if err != nil {
		return err
	}
	var req addCartItemRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.cartService.AddItem(c.UserContext(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, err := paramID(c, "usuarioId")
	if err != nil {
		return err
	}
	cart, err := h.cartService.GetCart(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve cart", err)
	}
	return c.JSON(cart)
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	userID, err := paramID(c, "usuarioId")
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req updateCartItemRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.cartService.UpdateItem(c.UserContext(), id, userID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not update cart item", err)
	}
	return c.JSON(item)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, err := paramID(c, "usuarioId")
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.cartService.RemoveItem(c.UserContext(), id, userID); err != nil {
		return respondError(c, h.logger, "Could not remove cart item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, err := paramID(c, "usuarioId")
	if err != nil {
		return err
	}
	if err := h.cartService.ClearCart(c.UserContext(), userID); err != nil {
		return respondError(c, h.logger, "Could not clear cart", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
