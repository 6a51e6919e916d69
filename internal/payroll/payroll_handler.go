package payroll

import (
	"fmt"
	"net/http"
	"strconv"

	payrollerrors "pharmacy-hr/internal/payroll/errors"
	"pharmacy-hr/internal/shared/apperror"
	"pharmacy-hr/internal/shared/request"
	"pharmacy-hr/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// queryDays returns 0 when ?days is absent so the service default applies.
func queryDays(c *gin.Context) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 0, payrollerrors.ErrInvalidDays
	}
	return days, nil
}

func (h *Handler) GetMine(c *gin.Context) {
	h.summary(c, "")
}

func (h *Handler) GetByUser(c *gin.Context) {
	h.summary(c, c.Param("id"))
}

func (h *Handler) summary(c *gin.Context, userID string) {
	actor, ok := request.Actor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}
	days, err := queryDays(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), actor, userID, days)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DownloadStatement(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}
	days, err := queryDays(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	file, err := h.service.Statement(c.Request.Context(), actor, days)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	writeFile(c, file)
}

func (h *Handler) Export(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}
	days, err := queryDays(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), actor, days)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	writeFile(c, file)
}

func writeFile(c *gin.Context, file ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
