package handlers

import (
	"io"
	"net/http"

	"github.com/futureforceai/careerprep/internal/services"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/gin-gonic/gin"
)

type CVHandler struct {
	svc services.CVService
}

func NewCVHandler(svc services.CVService) *CVHandler {
	return &CVHandler{svc: svc}
}

func (h *CVHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("cv_file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "missing multipart field 'cv_file'", err))
		return
	}
	if fh.Size <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "cv file is empty", nil))
		return
	}
	if fh.Size > maxCVBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "cv file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "CVHandler.Upload", "failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCVBytes))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "CVHandler.Upload", "failed to read upload", err))
		return
	}

	// Trust the sniffed type over the declared one.
	contentType := http.DetectContentType(data)
	if contentType == "application/octet-stream" && fh.Header.Get("Content-Type") != "" {
		contentType = fh.Header.Get("Content-Type")
	}

	cv, err := h.svc.Upload(c.Request.Context(), userID, fh.Filename, contentType, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "cv": cv.Summary()})
}

func (h *CVHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cvs, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cvs": cvs})
}

func (h *CVHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("cv_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "CV deleted successfully"})
}
