package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/middleware"
	"tienda/internal/services"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       newValidator(),
		logger:         logger,
	}
}

// RegisterRoutes registers the product routes. Reads are public, writes need catalog:write.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/productos")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Get("/:id/stock", h.HandleCheckStock)

	canWrite := middleware.Require(middleware.PermCatalogWrite)
	productRoutes.Post("/", authRequired, canWrite, h.HandleCreateProduct)
	productRoutes.Patch("/:id", authRequired, canWrite, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", authRequired, canWrite, h.HandleDeleteProduct)
}

// HandleListProducts lists the whole catalog.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.productService.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not list products", err)
	}
	return c.JSON(products)
}

// HandleGetProduct returns one product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCheckStock reports whether ?cantidad units are available.
func (h *ProductHandler) HandleCheckStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	qty := c.QueryInt("cantidad", 1)
	available, err := h.productService.VerifyStock(c.UserContext(), id, qty)
	if err != nil {
		return respondError(c, h.logger, "Could not verify stock", err)
	}
	return c.JSON(fiber.Map{
		"productoId": id,
		"cantidad":   qty,
		"disponible": available,
	})
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req services.ProductInput
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	product, err := h.productService.CreateProduct(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.ProductUpdate
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	product, err := h.productService.UpdateProduct(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product that no order references.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
