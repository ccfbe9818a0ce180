package fileHandler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/service/fileService"
	"filesharing-service/pkg/middleware"
)

type FileHandler struct {
	files  *fileService.FileService
	logger *zap.Logger
}

func New(files *fileService.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{files: files, logger: logger}
}

// Register mounts the file routes on an authenticated router group.
func (h *FileHandler) Register(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)
	r.GET("", h.List)
	r.GET("/download/:id", h.Download)
	r.GET("/view/:id", h.View)
	r.DELETE("/:id", h.Delete)
	r.PUT("/:id/visibility", h.SetVisibility)
	r.POST("/star/:id", h.Star)
	r.DELETE("/star/:id", h.Unstar)
	r.GET("/starred", h.Starred)
	r.POST("/share", h.Share)
	r.DELETE("/share", h.Unshare)
	r.GET("/:id/shares", h.ListShares)
	r.GET("/shared-with-me", h.SharedWithMe)
	r.GET("/shared-by-me", h.SharedByMe)
}

func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("no file provided: %v", err)})
		return
	}

	src, err := uploaded.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
		return
	}
	defer src.Close()

	file, err := h.files.UploadFile(c.Request.Context(), userID,
		uploaded.Filename, uploaded.Header.Get("Content-Type"), src, uploaded.Size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

func (h *FileHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	files, err := h.files.OwnedWithStarStatus(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *FileHandler) Download(c *gin.Context) { h.stream(c, "attachment") }

// View streams the file inline for in-browser preview.
func (h *FileHandler) View(c *gin.Context) { h.stream(c, "inline") }

func (h *FileHandler) stream(c *gin.Context, disposition string) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	reader, file, err := h.files.DownloadFile(c.Request.Context(), fileID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.OriginalName))
	c.Header("Content-Type", file.ContentType)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Warn("streaming aborted", zap.String("file_id", fileID.String()), zap.Error(err))
	}
}

func (h *FileHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	if err := h.files.DeleteFile(c.Request.Context(), fileID, userID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

func (h *FileHandler) SetVisibility(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.files.SetFilePublic(c.Request.Context(), fileID, userID, req.IsPublic); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FileHandler) Star(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	created, err := h.files.StarFile(c.Request.Context(), fileID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"starred": true, "created": created})
}

func (h *FileHandler) Unstar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	removed, err := h.files.UnstarFile(c.Request.Context(), fileID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"starred": false, "removed": removed})
}

func (h *FileHandler) Starred(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	files, err := h.files.StarredDetailed(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

type shareRequest struct {
	FileID         string `json:"file_id" binding:"required"`
	RecipientEmail string `json:"recipient_email" binding:"required"`
	CanEdit        bool   `json:"can_edit"`
}

func (h *FileHandler) Share(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fileID, err := uuid.Parse(req.FileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	share, err := h.files.ShareFile(c.Request.Context(), fileID, userID, req.RecipientEmail, req.CanEdit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, share)
}

type unshareRequest struct {
	FileID         string `json:"file_id" binding:"required"`
	RecipientEmail string `json:"recipient_email" binding:"required"`
}

func (h *FileHandler) Unshare(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	var req unshareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fileID, err := uuid.Parse(req.FileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	revoked, err := h.files.UnshareFile(c.Request.Context(), fileID, userID, req.RecipientEmail)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": revoked})
}

func (h *FileHandler) ListShares(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	shares, err := h.files.ListSharesForFile(c.Request.Context(), fileID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, shares)
}

func (h *FileHandler) SharedWithMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	email, err := h.files.EmailForUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	entries, err := h.files.SharedWithMe(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *FileHandler) SharedByMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	entries, err := h.files.SharedByMe(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// fail maps sentinel errors to HTTP status codes.
func (h *FileHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAlreadyShared), errors.Is(err, errs.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
