package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/shopdesk/internal/application/report"
	"github.com/xiebiao/shopdesk/internal/interface/http/dto"
	"github.com/xiebiao/shopdesk/pkg/response"
)

// ReportHandler 只读报表
type ReportHandler struct {
	useCase *report.ReportUseCase
}

func NewReportHandler(useCase *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{useCase: useCase}
}

// Sales 销售报表
// @Summary      销售报表
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string false "RFC3339或YYYY-MM-DD"
// @Param        endDate   query string false "RFC3339或YYYY-MM-DD,只有日期时包含当天"
// @Success      200 {object} dto.SalesReportResponse
// @Failure      400 {object} response.ErrorBody "日期格式错误"
// @Router       /reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	r, err := report.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}

	rep, err := h.useCase.Sales(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewSalesReportResponse(rep))
}

// PrintJobs 打印任务报表
// @Summary      打印任务报表
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string false "RFC3339或YYYY-MM-DD"
// @Param        endDate   query string false "RFC3339或YYYY-MM-DD"
// @Success      200 {object} dto.PrintJobReportResponse
// @Failure      400 {object} response.ErrorBody "日期格式错误"
// @Router       /reports/print-jobs [get]
func (h *ReportHandler) PrintJobs(c *gin.Context) {
	r, err := report.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}

	rep, err := h.useCase.PrintJobs(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewPrintJobReportResponse(rep))
}

// Inventory 库存报表
// @Summary      库存报表
// @Description  stockValue = Σ 成本价 × 库存
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.InventoryReportResponse
// @Router       /reports/inventory [get]
func (h *ReportHandler) Inventory(c *gin.Context) {
	rep, err := h.useCase.Inventory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewInventoryReportResponse(rep))
}
