package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/service"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// ReportHandler serves the sales reports.
type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetProfitSummary handles GET /api/reportes/ganancias
func (h *ReportHandler) GetProfitSummary(c *gin.Context) {
	rows, err := h.reportService.ProfitSummary(c.Request.Context())
	if err != nil {
		h.internal(c, err, "Error al obtener resumen de ganancias")
		return
	}
	utils.Success(c, 200, "Resumen de ganancias", rows)
}

// GetTopProducts handles GET /api/reportes/productos-top
func (h *ReportHandler) GetTopProducts(c *gin.Context) {
	rows, err := h.reportService.TopProducts(c.Request.Context())
	if err != nil {
		h.internal(c, err, "Error al obtener productos más vendidos")
		return
	}
	utils.Success(c, 200, "Productos más vendidos", rows)
}

// GetRecentSales handles GET /api/reportes/ventas-recientes?periodo=7|15|30
func (h *ReportHandler) GetRecentSales(c *gin.Context) {
	rows, days, err := h.reportService.RecentSales(c.Request.Context(), c.Query("periodo"))
	if err != nil {
		h.internal(c, err, "Error al obtener ventas recientes")
		return
	}
	c.Header("X-Periodo", strconv.Itoa(days))
	utils.Success(c, 200, "Ventas recientes", rows)
}

// GetMonthlySales handles GET /api/reportes/ventas-mensuales?mes=MM&anio=YYYY
func (h *ReportHandler) GetMonthlySales(c *gin.Context) {
	report, err := h.reportService.MonthlySales(c.Request.Context(), c.Query("mes"), c.Query("anio"))
	if err != nil {
		if errors.Is(err, utils.ErrInvalidDate) {
			utils.Error(c, 400, "INVALID_DATE", "Mes o año inválido")
			return
		}
		h.internal(c, err, "Error al obtener ventas mensuales")
		return
	}
	utils.Success(c, 200, "Ventas mensuales", report)
}

// GetDashboardStats handles GET /api/reportes/stats
func (h *ReportHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.reportService.DashboardStats(c.Request.Context())
	if err != nil {
		h.internal(c, err, "Error al obtener estadísticas del dashboard")
		return
	}
	utils.Success(c, 200, "Estadísticas del dashboard", stats)
}

func (h *ReportHandler) internal(c *gin.Context, err error, message string) {
	log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg(message)
	utils.Error(c, 500, "INTERNAL_ERROR", message)
}
