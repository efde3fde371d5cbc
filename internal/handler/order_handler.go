package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/service"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// OrderHandler handles order HTTP endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders handles GET /api/pedidos?estado=&mes=&anio=
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), service.ListOrdersParams{
		Status: c.Query("estado"),
		Month:  c.Query("mes"),
		Year:   c.Query("anio"),
	})
	if err != nil {
		if errors.Is(err, utils.ErrInvalidDate) {
			utils.Error(c, 400, "INVALID_DATE", "Mes o año inválido")
			return
		}
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Failed to list orders")
		utils.Error(c, 500, "INTERNAL_ERROR", "Error al obtener pedidos")
		return
	}

	utils.Success(c, 200, "Pedidos obtenidos", orders)
}

// GetOrder handles GET /api/pedidos/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de pedido inválido")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrOrderNotFound) {
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Pedido no encontrado")
			return
		}
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Int("id_pedido", id).Msg("Failed to get order")
		utils.Error(c, 500, "INTERNAL_ERROR", "Error al obtener el pedido")
		return
	}

	utils.Success(c, 200, "Pedido obtenido", order)
}

// CreateOrder handles POST /api/pedidos
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, 400, "INVALID_REQUEST", "Datos del pedido inválidos", err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.writeWriteError(c, err, "Error al crear el pedido")
		return
	}

	utils.Success(c, 201, "Pedido creado exitosamente", gin.H{
		"id_pedido": order.ID,
		"subtotal":  order.Subtotal,
		"total":     order.Total,
	})
}

// UpdateOrder handles PUT /api/pedidos/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de pedido inválido")
		return
	}

	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, 400, "INVALID_REQUEST", "Datos del pedido inválidos", err.Error())
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, utils.ErrOrderNotFound) {
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Pedido no encontrado")
			return
		}
		h.writeWriteError(c, err, "Error al actualizar el pedido")
		return
	}

	utils.Success(c, 200, "Pedido actualizado", gin.H{
		"id_pedido": order.ID,
		"subtotal":  order.Subtotal,
		"total":     order.Total,
	})
}

// UpdateStatus handles PATCH /api/pedidos/:id/estado
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de pedido inválido")
		return
	}

	var req service.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_STATUS", "Estado requerido")
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidStatus):
			utils.Error(c, 400, "INVALID_STATUS", "Estado requerido")
		case errors.Is(err, utils.ErrOrderNotFound):
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Pedido no encontrado")
		default:
			log.Error().Err(err).Str("request_id", utils.RequestID(c)).Int("id_pedido", id).Msg("Failed to update order status")
			utils.Error(c, 500, "INTERNAL_ERROR", "Error al actualizar estado")
		}
		return
	}

	utils.Success(c, 200, "Estado actualizado", nil)
}

// writeWriteError maps order create/update failures. Failures past request
// validation carry the underlying error text in error.message.
func (h *OrderHandler) writeWriteError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, utils.ErrInvalidDate):
		utils.Error(c, 400, "INVALID_DATE", "Fecha inválida, use el formato AAAA-MM-DD")
	case errors.Is(err, utils.ErrInvalidStatus):
		utils.Error(c, 400, "INVALID_STATUS", "Un pedido nuevo solo puede ser borrador o pendiente")
	case errors.Is(err, utils.ErrEmptyOrder):
		utils.Error(c, 400, "EMPTY_ORDER", "El pedido debe incluir al menos un producto con cantidad mayor a cero")
	case errors.Is(err, utils.ErrInvalidPrice):
		utils.Error(c, 400, "INVALID_SHIPPING", "El costo de envío no puede ser negativo")
	default:
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg(message)
		utils.ErrorWithDetail(c, 500, "ORDER_WRITE_FAILED", message, err.Error())
	}
}
