package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/service"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// maxImageSize caps product image uploads.
const maxImageSize = 5 << 20

// ProductHandler handles product catalog HTTP endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts handles GET /api/productos?categoria=<id>
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var categoryID *int
	if raw := c.Query("categoria"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			utils.Error(c, 400, "INVALID_CATEGORY", "Categoría inválida")
			return
		}
		categoryID = &id
	}

	products, err := h.productService.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Failed to list products")
		utils.Error(c, 500, "INTERNAL_ERROR", "Error al obtener productos")
		return
	}

	utils.Success(c, 200, "Productos obtenidos", products)
}

// GetProduct handles GET /api/productos/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de producto inválido")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Error al obtener el producto")
		return
	}

	utils.Success(c, 200, "Producto obtenido", product)
}

// CreateProduct handles POST /api/productos
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, 400, "INVALID_REQUEST", "Datos del producto inválidos", err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err, "Error al crear el producto")
		return
	}

	utils.Success(c, 201, "Producto creado", product)
}

// UpdateProduct handles PUT /api/productos/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de producto inválido")
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, 400, "INVALID_REQUEST", "Datos del producto inválidos", err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err, "Error al actualizar el producto")
		return
	}

	utils.Success(c, 200, "Producto actualizado", product)
}

// DeleteProduct handles DELETE /api/productos/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de producto inválido")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Error al eliminar el producto")
		return
	}

	utils.Success(c, 200, "Producto eliminado", nil)
}

// UploadImage handles POST /api/productos/:id/imagen (multipart field "imagen")
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de producto inválido")
		return
	}

	fileHeader, err := c.FormFile("imagen")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Falta el archivo de imagen")
		return
	}
	if fileHeader.Size > maxImageSize {
		utils.Error(c, 413, "IMAGE_TOO_LARGE", "La imagen supera los 5 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "No se pudo leer la imagen")
		return
	}
	defer file.Close()

	product, err := h.productService.UploadImage(
		c.Request.Context(), id, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file, fileHeader.Size,
	)
	if err != nil {
		h.writeError(c, err, "Error al subir la imagen")
		return
	}

	utils.Success(c, 200, "Imagen actualizada", product)
}

func (h *ProductHandler) writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Producto no encontrado")
	case errors.Is(err, utils.ErrCategoryNotFound):
		utils.Error(c, 400, "CATEGORY_NOT_FOUND", "Categoría no encontrada")
	case errors.Is(err, utils.ErrInvalidPrice):
		utils.Error(c, 400, "INVALID_PRICE", "El precio debe ser mayor o igual a cero")
	case errors.Is(err, utils.ErrInvalidImage):
		utils.Error(c, 400, "INVALID_IMAGE", "Formato de imagen no soportado")
	case errors.Is(err, utils.ErrStorageDisabled):
		utils.Error(c, 503, "STORAGE_DISABLED", "Almacenamiento de imágenes no configurado")
	default:
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg(message)
		utils.Error(c, 500, "INTERNAL_ERROR", message)
	}
}
