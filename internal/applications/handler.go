package applications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobapply-backend/internal/resumes"
	"jobapply-backend/internal/shared/server/middleware"
	"jobapply-backend/internal/shared/server/respond"
)

const maxUploadSize = 20 << 20 // 20MB across the three attachment slots

// Handler wires HTTP handlers to the apply workflow.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches apply routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/apply/:jobId/draft", h.draft)
	rg.POST("/apply/temp", h.tempSave)
	rg.POST("/apply/submit", h.submit)
	rg.GET("/apply/my", h.myApplications)
}

func (h *Handler) draft(c *gin.Context) {
	applicantID := middleware.ApplicantIDFromContext(c)

	jobID, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil || jobID <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid job id", nil)
		return
	}
	c.Set("jobId", jobID)

	draft, err := h.Svc.GetDraft(c.Request.Context(), applicantID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load draft", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toDraftResponse(draft))
}

func (h *Handler) tempSave(c *gin.Context) {
	applicantID := middleware.ApplicantIDFromContext(c)

	jobID, form, ok := h.bindSaveForm(c)
	if !ok {
		return
	}

	result, err := h.Svc.TempSave(c.Request.Context(), applicantID, jobID, form)
	if err != nil {
		h.respondSaveError(c, err, "failed to save draft")
		return
	}

	c.Set("applicationId", result.ApplicationID)
	c.Set("statusTransition", result.Status)
	respond.JSON(c, http.StatusOK, toSaveResponse(result))
}

func (h *Handler) submit(c *gin.Context) {
	applicantID := middleware.ApplicantIDFromContext(c)

	jobID, form, ok := h.bindSaveForm(c)
	if !ok {
		return
	}

	result, err := h.Svc.Submit(c.Request.Context(), applicantID, jobID, form)
	if err != nil {
		h.respondSaveError(c, err, "failed to submit application")
		return
	}

	c.Set("applicationId", result.ApplicationID)
	c.Set("statusTransition", result.Status)
	respond.JSON(c, http.StatusOK, toSaveResponse(result))
}

func (h *Handler) myApplications(c *gin.Context) {
	applicantID := middleware.ApplicantIDFromContext(c)

	page := intQuery(c, "page", 0)
	size := intQuery(c, "size", 10)
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	if size > 50 {
		size = 50
	}

	result, err := h.Svc.MyApplications(c.Request.Context(), applicantID, page, size)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) bindSaveForm(c *gin.Context) (int64, *resumes.Form, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	var form resumes.Form
	if err := c.ShouldBind(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form data", nil)
		return 0, nil, false
	}

	jobID, err := strconv.ParseInt(c.PostForm("jobId"), 10, 64)
	if err != nil || jobID <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid job id", nil)
		return 0, nil, false
	}
	c.Set("jobId", jobID)

	return jobID, &form, true
}

func (h *Handler) respondSaveError(c *gin.Context, err error, fallback string) {
	var fieldErr *FieldError
	switch {
	case errors.Is(err, ErrAlreadyApplied):
		respond.Error(c, http.StatusConflict, "already_applied", "이미 해당 공고에 지원하셨습니다.", nil)
	case errors.As(err, &fieldErr):
		respond.Error(c, http.StatusBadRequest, "validation_error", fieldErr.Error(), gin.H{"field": fieldErr.Field})
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
