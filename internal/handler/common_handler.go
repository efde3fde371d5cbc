package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/service"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// CommonHandler serves lookup lists for dashboard forms.
type CommonHandler struct {
	commonService *service.CommonService
}

func NewCommonHandler(commonService *service.CommonService) *CommonHandler {
	return &CommonHandler{commonService: commonService}
}

// GetCategories handles GET /api/common/categorias
func (h *CommonHandler) GetCategories(c *gin.Context) {
	categories, err := h.commonService.Categories(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Failed to list categories")
		utils.Error(c, 500, "INTERNAL_ERROR", "Error al obtener categorías")
		return
	}
	utils.Success(c, 200, "Categorías obtenidas", categories)
}

// GetClients handles GET /api/common/clientes
func (h *CommonHandler) GetClients(c *gin.Context) {
	clients, err := h.commonService.Clients(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Failed to list clients")
		utils.Error(c, 500, "INTERNAL_ERROR", "Error al obtener clientes")
		return
	}
	utils.Success(c, 200, "Clientes obtenidos", clients)
}

// GetChannels handles GET /api/common/canales
func (h *CommonHandler) GetChannels(c *gin.Context) {
	channels, err := h.commonService.Channels(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Failed to list channels")
		utils.Error(c, 500, "INTERNAL_ERROR", "Error al obtener canales")
		return
	}
	utils.Success(c, 200, "Canales obtenidos", channels)
}
