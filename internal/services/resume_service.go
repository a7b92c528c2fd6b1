package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/futureforceai/careerprep/internal/extract"
	mongorepo "github.com/futureforceai/careerprep/internal/repositories/mongo"
	"github.com/futureforceai/careerprep/internal/storage"
	"github.com/futureforceai/careerprep/internal/utils"
)

// ResumeAnalyzer is the slice of the AI backend used for ATS analysis. Unlike
// the interview flows, failures here are surfaced: there is no sensible
// fallback for an analysis.
type ResumeAnalyzer interface {
	AnalyzeResume(ctx context.Context, resumeText, targetRole string) (json.RawMessage, error)
	SuggestRoles(ctx context.Context, resumeText string) (json.RawMessage, error)
}

type ResumeService interface {
	Analyze(ctx context.Context, userID, cvID, targetRole string) (json.RawMessage, error)
	SuggestRoles(ctx context.Context, userID, cvID string) (json.RawMessage, error)
}

type resumeService struct {
	cvs      mongorepo.CVRepository
	files    storage.Reader
	analyzer ResumeAnalyzer

	extractText func(filename string, data []byte) (string, error)
}

func NewResumeService(cvs mongorepo.CVRepository, files storage.Reader, analyzer ResumeAnalyzer) ResumeService {
	return &resumeService{cvs: cvs, files: files, analyzer: analyzer, extractText: extract.Text}
}

func (s *resumeService) Analyze(ctx context.Context, userID, cvID, targetRole string) (json.RawMessage, error) {
	const op = "ResumeService.Analyze"

	if strings.TrimSpace(targetRole) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "target_role is required", nil)
	}

	text, err := s.resumeText(ctx, op, userID, cvID)
	if err != nil {
		return nil, err
	}

	out, err := s.analyzer.AnalyzeResume(ctx, text, targetRole)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "resume analysis service unavailable", err)
	}
	return out, nil
}

func (s *resumeService) SuggestRoles(ctx context.Context, userID, cvID string) (json.RawMessage, error) {
	const op = "ResumeService.SuggestRoles"

	text, err := s.resumeText(ctx, op, userID, cvID)
	if err != nil {
		return nil, err
	}

	out, err := s.analyzer.SuggestRoles(ctx, text)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "role suggestion service unavailable", err)
	}
	return out, nil
}

func (s *resumeService) resumeText(ctx context.Context, op, userID, cvID string) (string, error) {
	if cvID == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "cv_id is required", nil)
	}

	cv, err := s.cvs.GetByID(ctx, cvID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to load cv", err)
	}
	if cv.UserID != userID {
		return "", utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	text := cv.ExtractedText
	if strings.TrimSpace(text) == "" {
		data, rerr := s.files.ReadAll(ctx, cv.StoragePath)
		if rerr == nil {
			text, _ = s.extractText(cv.FileName, data)
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "could not extract readable content from CV", nil)
	}
	return text, nil
}
