package profile

import (
	"net/http"
	"strings"

	"pharmacy-hr/internal/shared/apperror"
	"pharmacy-hr/internal/shared/request"
	"pharmacy-hr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("profile.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.handler")
	}
	return &Handler{svc: service, logger: l}
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetMe(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		writeError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.svc.GetMe(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		writeError(c, apperror.ErrUnauthorized)
		return
	}
	h.logger.Debug("http list profiles", zap.String("actor_id", actor.ID.String()))

	filter := ListFilter{
		Role:  strings.TrimSpace(c.Query("role")),
		Email: strings.TrimSpace(c.Query("q")),
	}
	resp, err := h.svc.List(c.Request.Context(), actor, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	page, pageSize := response.PageParams(c, 50)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		writeError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		writeError(c, apperror.ErrUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Invite(c *gin.Context) {
	actor, ok := request.Actor(c)
	if !ok {
		writeError(c, apperror.ErrUnauthorized)
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.svc.Invite(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}
