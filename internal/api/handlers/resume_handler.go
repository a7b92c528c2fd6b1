package handlers

import (
	"net/http"

	"github.com/futureforceai/careerprep/internal/services"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

type AnalyzeResumeRequest struct {
	CVID       string `json:"cv_id" binding:"required"`
	TargetRole string `json:"target_role" binding:"required"`
}

func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AnalyzeResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Analyze", "invalid request body", err))
		return
	}

	out, err := h.svc.Analyze(c.Request.Context(), userID, req.CVID, req.TargetRole)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

type SuggestRolesRequest struct {
	CVID string `json:"cv_id" binding:"required"`
}

func (h *ResumeHandler) SuggestRoles(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SuggestRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.SuggestRoles", "invalid request body", err))
		return
	}

	out, err := h.svc.SuggestRoles(c.Request.Context(), userID, req.CVID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}
