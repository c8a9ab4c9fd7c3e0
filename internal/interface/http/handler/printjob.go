package handler

import (
	"github.com/gin-gonic/gin"

	appprintjob "github.com/xiebiao/shopdesk/internal/application/printjob"
	"github.com/xiebiao/shopdesk/internal/application/report"
	"github.com/xiebiao/shopdesk/internal/domain/printjob"
	"github.com/xiebiao/shopdesk/internal/interface/http/dto"
	"github.com/xiebiao/shopdesk/pkg/response"
)

// PrintJobHandler 打印任务HTTP处理器
type PrintJobHandler struct {
	useCase *appprintjob.PrintJobUseCase
}

func NewPrintJobHandler(useCase *appprintjob.PrintJobUseCase) *PrintJobHandler {
	return &PrintJobHandler{useCase: useCase}
}

// CreatePrintJob 创建打印任务
// @Summary      创建打印任务
// @Description  totalAmount = pages × rate
// @Tags         打印任务
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreatePrintJobRequest true "打印任务"
// @Success      201 {object} dto.PrintJobResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Router       /printJobs [post]
func (h *PrintJobHandler) CreatePrintJob(c *gin.Context) {
	var req dto.CreatePrintJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	job, err := h.useCase.Create(c.Request.Context(), appprintjob.CreateRequest{
		CustomerName:  req.CustomerName,
		Pages:         req.Pages,
		Rate:          req.Rate.Decimal,
		PaymentStatus: printjob.PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewPrintJobResponse(job))
}

// ListPrintJobs 打印任务列表
// @Summary      打印任务列表
// @Tags         打印任务
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string false "RFC3339或YYYY-MM-DD"
// @Param        endDate   query string false "RFC3339或YYYY-MM-DD"
// @Success      200 {array} dto.PrintJobResponse
// @Router       /printJobs [get]
func (h *PrintJobHandler) ListPrintJobs(c *gin.Context) {
	r, err := report.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}

	jobs, err := h.useCase.List(c.Request.Context(), r.From, r.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewPrintJobResponses(jobs))
}

// GetPrintJob 打印任务详情
// @Summary      打印任务详情
// @Tags         打印任务
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "打印任务ID"
// @Success      200 {object} dto.PrintJobResponse
// @Failure      404 {object} response.ErrorBody "打印任务不存在"
// @Router       /printJobs/{id} [get]
func (h *PrintJobHandler) GetPrintJob(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	job, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewPrintJobResponse(job))
}

// UpdatePrintJob 修改打印任务
// @Summary      修改打印任务
// @Description  页数或单价变化时重算总价
// @Tags         打印任务
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "打印任务ID"
// @Param        request body dto.UpdatePrintJobRequest true "要修改的字段"
// @Success      200 {object} dto.PrintJobResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      404 {object} response.ErrorBody "打印任务不存在"
// @Router       /printJobs/{id} [put]
func (h *PrintJobHandler) UpdatePrintJob(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdatePrintJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	job, err := h.useCase.Update(c.Request.Context(), id, req.Patch())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewPrintJobResponse(job))
}

// DeletePrintJob 删除打印任务
// @Summary      删除打印任务
// @Tags         打印任务
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "打印任务ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.ErrorBody "打印任务不存在"
// @Router       /printJobs/{id} [delete]
func (h *PrintJobHandler) DeletePrintJob(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Print job deleted successfully", nil)
}
