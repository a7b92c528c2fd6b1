package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/futureforceai/careerprep/internal/models"
	mongorepo "github.com/futureforceai/careerprep/internal/repositories/mongo"
	"github.com/futureforceai/careerprep/internal/storage"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const cvListCap = 100

// ExtractEnqueuer hands a CV off for asynchronous text extraction.
type ExtractEnqueuer interface {
	Enqueue(ctx context.Context, cvID string) error
}

type CVService interface {
	Upload(ctx context.Context, userID, originalName, contentType string, data []byte) (*models.CV, error)
	List(ctx context.Context, userID string) ([]models.CVSummary, error)
	Delete(ctx context.Context, userID, cvID string) error
}

type cvService struct {
	cvs     mongorepo.CVRepository
	store   storage.Store
	extract ExtractEnqueuer
	log     *logrus.Logger
}

func NewCVService(cvs mongorepo.CVRepository, store storage.Store, extract ExtractEnqueuer, log *logrus.Logger) CVService {
	return &cvService{cvs: cvs, store: store, extract: extract, log: log}
}

var unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = unsafeNameRe.ReplaceAllString(name, "_")
	if name == "" || name == "." {
		name = "cv"
	}
	return name
}

func (s *cvService) Upload(ctx context.Context, userID, originalName, contentType string, data []byte) (*models.CV, error) {
	const op = "CVService.Upload"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if len(data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "cv file is empty", nil)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Collision-resistant stored name: timestamp + random suffix + sanitized
	// original name.
	stored := fmt.Sprintf("%d-%s-%s",
		time.Now().UTC().Unix(),
		uuid.NewString()[:8],
		sanitizeName(originalName),
	)
	objectName := "cv/" + userID + "/" + stored

	path, err := s.store.Upload(ctx, objectName, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store cv file", err)
	}

	now := time.Now().UTC()
	cv := &models.CV{
		ID:           uuid.NewString(),
		UserID:       userID,
		FileName:     stored,
		OriginalName: originalName,
		FileSize:     int64(len(data)),
		StoragePath:  path,
		ContentType:  contentType,
		UploadedAt:   now,
		LastUsed:     now,
	}
	if err := s.cvs.Insert(ctx, cv); err != nil {
		// The record is the primary effect; undo the file write.
		if derr := s.store.Delete(ctx, path); derr != nil {
			s.log.WithError(derr).WithField("path", path).Warn("failed to clean up orphaned cv file")
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to persist cv metadata", err)
	}

	if s.extract != nil {
		if err := s.extract.Enqueue(ctx, cv.ID); err != nil {
			s.log.WithError(err).WithField("cv_id", cv.ID).Warn("failed to enqueue cv text extraction")
		}
	}
	return cv, nil
}

func (s *cvService) List(ctx context.Context, userID string) ([]models.CVSummary, error) {
	rows, err := s.cvs.ListByUser(ctx, userID, cvListCap)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("failed to list cvs")
		return []models.CVSummary{}, nil
	}

	out := make([]models.CVSummary, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Summary())
	}
	return out, nil
}

func (s *cvService) Delete(ctx context.Context, userID, cvID string) error {
	const op = "CVService.Delete"

	if cvID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "cv_id is required", nil)
	}

	cv, err := s.cvs.GetByID(ctx, cvID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load cv", err)
	}
	if cv.UserID != userID {
		return utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	// Best-effort file removal at the canonical path; the record delete is the
	// authoritative effect.
	if strings.TrimSpace(cv.StoragePath) != "" {
		if err := s.store.Delete(ctx, cv.StoragePath); err != nil {
			s.log.WithError(err).WithField("path", cv.StoragePath).Warn("failed to delete cv file")
		}
	}

	if err := s.cvs.Delete(ctx, cvID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete cv record", err)
	}
	return nil
}
