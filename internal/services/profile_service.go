package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/futureforceai/careerprep/internal/models"
	pgrepo "github.com/futureforceai/careerprep/internal/repositories/postgres"
	"github.com/futureforceai/careerprep/internal/utils"
	"gorm.io/datatypes"
)

// UpdateProfileInput carries a partial update; nil fields are left untouched.
type UpdateProfileInput struct {
	FullName        *string
	PhoneNumber     *string
	Headline        *string
	CareerInterest  *string
	YearsExperience *int
	Skills          *[]string
	TargetRoles     *[]string
	Experience      *json.RawMessage
	Education       *json.RawMessage
	JobPreferences  *json.RawMessage
}

type ProfileService interface {
	// GetMe returns the user's career profile. A user who never saved one
	// gets a profile seeded from their registration fields.
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, in UpdateProfileInput) (*models.Profile, error)
}

type profileService struct {
	profiles pgrepo.ProfileRepository
	users    pgrepo.UserRepository
}

func NewProfileService(profiles pgrepo.ProfileRepository, users pgrepo.UserRepository) ProfileService {
	return &profileService{profiles: profiles, users: users}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	return s.loadOrSeed(ctx, "ProfileService.GetMe", userID)
}

func (s *profileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*models.Profile, error) {
	const op = "ProfileService.Update"

	if in.YearsExperience != nil && *in.YearsExperience < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "years_experience cannot be negative", nil)
	}

	p, err := s.loadOrSeed(ctx, op, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.PhoneNumber != nil {
		p.PhoneNumber = *in.PhoneNumber
	}
	if in.Headline != nil {
		p.Headline = *in.Headline
	}
	if in.CareerInterest != nil {
		p.CareerInterest = *in.CareerInterest
	}
	if in.YearsExperience != nil {
		p.YearsExperience = *in.YearsExperience
	}
	if in.Skills != nil {
		p.Skills = *in.Skills
	}
	if in.TargetRoles != nil {
		p.TargetRoles = *in.TargetRoles
	}
	if in.Experience != nil {
		p.Experience = datatypes.JSON(*in.Experience)
	}
	if in.Education != nil {
		p.Education = datatypes.JSON(*in.Education)
	}
	if in.JobPreferences != nil {
		p.JobPreferences = datatypes.JSON(*in.JobPreferences)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}
	return p, nil
}

// loadOrSeed fetches the stored profile, falling back to a fresh one carrying
// the name, career interest, and experience the user gave at registration.
func (s *profileService) loadOrSeed(ctx context.Context, op, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}

	u, uerr := s.users.GetByID(ctx, userID)
	if uerr != nil {
		if errors.Is(uerr, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", uerr)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", uerr)
	}

	return &models.Profile{
		UserID:          u.ID,
		FullName:        u.Name,
		CareerInterest:  u.CareerInterest,
		YearsExperience: u.YearsExperience,
	}, nil
}
