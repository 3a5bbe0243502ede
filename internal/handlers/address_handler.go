package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/services"
)

// AddressHandler serves the caller's shipping addresses.
type AddressHandler struct {
	addressService *services.AddressService
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(addressService *services.AddressService, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		validate:       newValidator(),
		logger:         logger,
	}
}

// RegisterRoutes registers the address routes, all authenticated.
func (h *AddressHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	addressRoutes := router.Group("/direcciones-envio", authRequired)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Get("/", h.HandleListAddresses)
	addressRoutes.Get("/:id", h.HandleGetAddress)
	addressRoutes.Delete("/:id", h.HandleDeleteAddress)
}

func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req services.AddressInput
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	address, err := h.addressService.CreateAddress(c.UserContext(), p.UserID, req)
	if err != nil {
		return respondError(c, h.logger, "Could not create address", err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

func (h *AddressHandler) HandleListAddresses(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	addresses, err := h.addressService.ListAddresses(c.UserContext(), p.UserID)
	if err != nil {
		return respondError(c, h.logger, "Could not list addresses", err)
	}
	return c.JSON(addresses)
}

func (h *AddressHandler) HandleGetAddress(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	address, err := h.addressService.GetAddress(c.UserContext(), id, p.UserID)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve address", err)
	}
	return c.JSON(address)
}

func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.addressService.DeleteAddress(c.UserContext(), id, p.UserID); err != nil {
		return respondError(c, h.logger, "Could not delete address", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
