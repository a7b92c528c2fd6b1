package handlers

import (
	"io"
	"net/http"

	"github.com/futureforceai/careerprep/internal/services"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxCVBytes = 10 << 20

type InterviewHandler struct {
	svc services.InterviewService
	cvs services.CVService
	log *logrus.Logger
}

func NewInterviewHandler(svc services.InterviewService, cvs services.CVService, log *logrus.Logger) *InterviewHandler {
	return &InterviewHandler{svc: svc, cvs: cvs, log: log}
}

// Start opens a session from a multipart form carrying either a fresh cv_file
// or the cv_id of a saved record.
func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobRole := c.PostForm("job_role")
	if jobRole == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "job_role is required", nil))
		return
	}

	if cvID := c.PostForm("cv_id"); cvID != "" {
		out, err := h.svc.StartWithSavedCV(c.Request.Context(), userID, jobRole, cvID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}

	fh, err := c.FormFile("cv_file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "either cv_file or cv_id is required", err))
		return
	}
	if fh.Size <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "cv file is empty", nil))
		return
	}
	if fh.Size > maxCVBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "cv file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "InterviewHandler.Start", "failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCVBytes))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "InterviewHandler.Start", "failed to read upload", err))
		return
	}

	var cvID string
	if c.PostForm("save_cv") == "true" {
		contentType := fh.Header.Get("Content-Type")
		cv, serr := h.cvs.Upload(c.Request.Context(), userID, fh.Filename, contentType, data)
		if serr != nil {
			// Saving is a convenience; the interview still starts.
			h.log.WithError(serr).WithField("user_id", userID).Warn("failed to save uploaded cv")
		} else {
			cvID = cv.ID
		}
	}

	out, err := h.svc.StartWithCV(c.Request.Context(), userID, jobRole, fh.Filename, data, cvID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type StartSavedCVRequest struct {
	CVID    string `json:"cv_id" binding:"required"`
	JobRole string `json:"job_role" binding:"required"`
}

func (h *InterviewHandler) StartWithSavedCV(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartSavedCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.StartWithSavedCV", "invalid request body", err))
		return
	}

	out, err := h.svc.StartWithSavedCV(c.Request.Context(), userID, req.JobRole, req.CVID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type ChatRequest struct {
	SessionID   string `json:"session_id" binding:"required"`
	UserMessage string `json:"user_message" binding:"required"`
}

func (h *InterviewHandler) Chat(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Chat", "invalid request body", err))
		return
	}

	messages, err := h.svc.Chat(c.Request.Context(), userID, req.SessionID, req.UserMessage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *InterviewHandler) ListSessions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessions, err := h.svc.ListSessions(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *InterviewHandler) GetSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conv, err := h.svc.Get(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":    conv.SessionID,
		"job_role":      conv.JobRole,
		"created_at":    conv.CreatedAt,
		"finished":      conv.Finished,
		"messages":      conv.Messages,
		"max_questions": conv.MaxQuestions,
	})
}
