package resource

import (
	"errors"
	"strconv"

	"filevault/internal/domain"
	"filevault/internal/middleware"
	"filevault/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, authRequired gin.HandlerFunc) {
	group := v1.Group("/resource")
	{
		group.GET("", h.List)
		group.GET("/:id", h.GetByID)
		group.POST("", authRequired, h.Create)
		group.PATCH("/:id", authRequired, h.Update)
		group.DELETE("/:id", authRequired, h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Access token is required")
		return
	}

	req := CreateRequest{
		Name: c.PostForm("name"),
		Type: domain.ResourceType(c.PostForm("type")),
	}
	if v := c.PostForm("parent_id"); v != "" {
		parentID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "Invalid parent_id")
			return
		}
		req.ParentID = &parentID
	}

	// the file part is absent for folders
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	res, err := h.service.Create(c.Request.Context(), user.ID, req, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingName):
			response.BadRequest(c, "Name is required")
		case errors.Is(err, ErrInvalidType):
			response.BadRequest(c, "Type must be FOLDER or FILE")
		case errors.Is(err, ErrMissingFile):
			response.BadRequest(c, "File is required for FILE resources")
		case errors.Is(err, ErrParentNotFound):
			response.BadRequest(c, "Parent resource not found")
		case errors.Is(err, ErrParentNotFolder):
			response.BadRequest(c, "Parent resource must be a folder")
		default:
			h.internalError(c, "create", err)
		}
		return
	}

	response.Created(c, "Resource created successfully", res)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		h.internalError(c, "list", err)
		return
	}

	response.Success(c, "Resources fetched successfully", result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Resource not found")
			return
		}
		h.internalError(c, "get", err)
		return
	}

	response.Success(c, "Resource fetched successfully", res)
}

func (h *Handler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Access token is required")
		return
	}

	id, ok := h.paramID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Update(c.Request.Context(), id, user.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Resource not found")
		case errors.Is(err, ErrForbidden):
			response.Forbidden(c, "You don't own this resource")
		case errors.Is(err, ErrMissingName):
			response.BadRequest(c, "Name is required")
		case errors.Is(err, ErrParentNotFound):
			response.BadRequest(c, "Parent resource not found")
		case errors.Is(err, ErrParentNotFolder):
			response.BadRequest(c, "Parent resource must be a folder")
		case errors.Is(err, ErrCycle):
			response.BadRequest(c, "Resource cannot be moved inside itself")
		default:
			h.internalError(c, "update", err)
		}
		return
	}

	response.Success(c, "Resource updated successfully", res)
}

func (h *Handler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Access token is required")
		return
	}

	id, ok := h.paramID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, user.ID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Resource not found")
		case errors.Is(err, ErrForbidden):
			response.Forbidden(c, "You don't own this resource")
		default:
			h.internalError(c, "delete", err)
		}
		return
	}

	response.Success(c, "Resource deleted successfully", nil)
}

func (h *Handler) paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid resource ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	zap.L().Error("resource "+op+" failed", zap.Error(err))
	response.InternalError(c, "")
}
