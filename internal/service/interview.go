package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/domain/model"
	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/observability/metrics"
)

const maxInterviewsPerUser = 500

// InterviewServiceOptions groups dependencies for InterviewService.
type InterviewServiceOptions struct {
	Store   core.UserDataStore // Required
	Metrics *metrics.Registry  // Optional
}

// InterviewService manages each user's interview calendar.
type InterviewService struct {
	docs documentStore[model.InterviewCalendar]
}

// NewInterviewService constructs a new InterviewService.
func NewInterviewService(opts InterviewServiceOptions) *InterviewService {
	if opts.Store == nil {
		panic("UserDataStore is required")
	}
	return &InterviewService{
		docs: documentStore[model.InterviewCalendar]{store: opts.Store, key: model.DocInterviews, metrics: opts.Metrics},
	}
}

func sortInterviews(ivs []model.Interview) {
	sort.SliceStable(ivs, func(i, j int) bool {
		if !ivs[i].StartsAt.Equal(ivs[j].StartsAt) {
			return ivs[i].StartsAt.Before(ivs[j].StartsAt)
		}
		return ivs[i].ID < ivs[j].ID
	})
}

// List returns the user's interviews ordered by start time.
func (s *InterviewService) List(ctx context.Context, userID string) ([]model.Interview, error) {
	cal, _, err := s.docs.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := append([]model.Interview{}, cal.Interviews...)
	sortInterviews(out)
	return out, nil
}

// Create schedules a new interview.
func (s *InterviewService) Create(ctx context.Context, userID string, req model.CreateInterviewRequest) (*model.Interview, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	iv := model.Interview{
		ID:        uuid.NewString(),
		ListingID: req.ListingID,
		Title:     req.Title,
		StartsAt:  req.StartsAt.UTC(),
		EndsAt:    req.EndsAt.UTC(),
		Location:  req.Location,
		Notes:     req.Notes,
	}
	_, err := s.docs.update(ctx, userID, func(c *model.InterviewCalendar) error {
		if len(c.Interviews) >= maxInterviewsPerUser {
			return apperrors.Validationf("at most %d interviews are allowed", maxInterviewsPerUser)
		}
		c.Interviews = append(c.Interviews, iv)
		sortInterviews(c.Interviews)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// Update changes the fields set in req.
func (s *InterviewService) Update(ctx context.Context, userID, id string, req model.UpdateInterviewRequest) (*model.Interview, error) {
	if !req.HasUpdates() {
		return nil, apperrors.Validation("no fields to update")
	}

	var out model.Interview
	_, err := s.docs.update(ctx, userID, func(c *model.InterviewCalendar) error {
		i := findInterview(c.Interviews, id)
		if i < 0 {
			return apperrors.NotFoundf("interview %s not found", id)
		}
		updated, err := req.Apply(c.Interviews[i])
		if err != nil {
			return apperrors.Validation(err.Error())
		}
		updated.StartsAt = updated.StartsAt.UTC()
		updated.EndsAt = updated.EndsAt.UTC()
		c.Interviews[i] = updated
		sortInterviews(c.Interviews)
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an interview and reports whether it existed.
func (s *InterviewService) Delete(ctx context.Context, userID, id string) (bool, error) {
	removed := false
	_, err := s.docs.update(ctx, userID, func(c *model.InterviewCalendar) error {
		i := findInterview(c.Interviews, id)
		if i < 0 {
			removed = false
			return errUnchanged
		}
		c.Interviews = append(c.Interviews[:i], c.Interviews[i+1:]...)
		removed = true
		return nil
	})
	return removed, err
}

func findInterview(ivs []model.Interview, id string) int {
	for i := range ivs {
		if ivs[i].ID == id {
			return i
		}
	}
	return -1
}
