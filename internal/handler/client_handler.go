package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/service"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// ClientHandler handles customer HTTP endpoints.
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler constructs a ClientHandler.
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// ListClients handles GET /api/clientes
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Failed to list clients")
		utils.Error(c, 500, "INTERNAL_ERROR", "Error al obtener clientes")
		return
	}

	utils.Success(c, 200, "Clientes obtenidos", clients)
}

// GetClient handles GET /api/clientes/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de cliente inválido")
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Error al obtener el cliente")
		return
	}

	utils.Success(c, 200, "Cliente obtenido", client)
}

// CreateClient handles POST /api/clientes
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, 400, "INVALID_REQUEST", "Datos del cliente inválidos", err.Error())
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err, "Error al crear cliente")
		return
	}

	utils.Success(c, 201, "Cliente creado", client)
}

// UpdateClient handles PUT /api/clientes/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de cliente inválido")
		return
	}

	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithDetail(c, 400, "INVALID_REQUEST", "Datos del cliente inválidos", err.Error())
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err, "Error al actualizar cliente")
		return
	}

	utils.Success(c, 200, "Cliente actualizado", client)
}

// DeleteClient handles DELETE /api/clientes/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.Error(c, 400, "INVALID_ID", "ID de cliente inválido")
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Error al eliminar cliente")
		return
	}

	utils.Success(c, 200, "Cliente eliminado", nil)
}

func (h *ClientHandler) writeError(c *gin.Context, err error, message string) {
	if errors.Is(err, utils.ErrClientNotFound) {
		utils.Error(c, 404, "CLIENT_NOT_FOUND", "Cliente no encontrado")
		return
	}
	log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg(message)
	utils.Error(c, 500, "INTERNAL_ERROR", message)
}
