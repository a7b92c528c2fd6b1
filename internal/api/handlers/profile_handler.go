package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/futureforceai/careerprep/internal/services"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateProfileRequest is a partial update; absent fields keep their value.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name,omitempty"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
	Headline        *string `json:"headline,omitempty"`
	CareerInterest  *string `json:"career_interest,omitempty"`
	YearsExperience *int    `json:"years_experience,omitempty"`

	Skills      *[]string `json:"skills,omitempty"`
	TargetRoles *[]string `json:"target_roles,omitempty"`

	Experience     *json.RawMessage `json:"experience,omitempty"`
	Education      *json.RawMessage `json:"education,omitempty"`
	JobPreferences *json.RawMessage `json:"job_preferences,omitempty"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Update", "invalid request body", err))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), userID, services.UpdateProfileInput{
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		Headline:        req.Headline,
		CareerInterest:  req.CareerInterest,
		YearsExperience: req.YearsExperience,
		Skills:          req.Skills,
		TargetRoles:     req.TargetRoles,
		Experience:      req.Experience,
		Education:       req.Education,
		JobPreferences:  req.JobPreferences,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
