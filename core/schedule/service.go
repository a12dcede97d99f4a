package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a requested event does not exist or does not
// belong to the requesting owner.
var ErrNotFound = errors.New("schedule event not found")

// ErrWeekSettingsNotFound is returned by repositories when an owner has not
// saved any week settings yet; the service falls back to defaults.
var ErrWeekSettingsNotFound = errors.New("week settings not found")

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		QueryOwnerEvents(ctx context.Context, ownerID string) ([]Event, error)
		GetOwnerEvent(ctx context.Context, ownerID, id string) (Event, error)
		UpdateEvent(ctx context.Context, evt Event) (Event, error)
		DeleteEvent(ctx context.Context, ownerID, id string) error
		GetWeekSettings(ctx context.Context, ownerID string) (WeekSettings, error)
		SaveWeekSettings(ctx context.Context, ws WeekSettings) (WeekSettings, error)
	}

	Service interface {
		Create(ctx context.Context, ownerID string, ne NewEvent) (Event, error)
		QueryAll(ctx context.Context, ownerID string) ([]Event, error)
		GetByID(ctx context.Context, ownerID, id string) (Event, error)
		Update(ctx context.Context, ownerID, id string, ue UpdateEvent) (Event, error)
		Delete(ctx context.Context, ownerID, id string) error
		WeekSettings(ctx context.Context, ownerID string) (WeekSettings, error)
		SaveWeekSettings(ctx context.Context, ownerID string, uw UpdateWeekSettings) (WeekSettings, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, ownerID string, ne NewEvent) (Event, error) {
	now := time.Now().UTC()
	evt := Event{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       ne.Title,
		Description: ne.Description,
		Location:    ne.Location,
		StartTime:   ne.StartTime,
		EndTime:     ne.EndTime,
		WeekType:    ne.WeekType,
		Days:        ne.Days,
		Color:       ne.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateEvent(ctx, evt)
}

func (svc *service) QueryAll(ctx context.Context, ownerID string) ([]Event, error) {
	return svc.repo.QueryOwnerEvents(ctx, ownerID)
}

func (svc *service) GetByID(ctx context.Context, ownerID, id string) (Event, error) {
	return svc.repo.GetOwnerEvent(ctx, ownerID, id)
}

func (svc *service) Update(ctx context.Context, ownerID, id string, ue UpdateEvent) (Event, error) {
	evt, err := svc.repo.GetOwnerEvent(ctx, ownerID, id)
	if err != nil {
		return Event{}, err
	}
	evt.Title = ue.Title
	evt.Description = *ue.Description
	evt.Location = *ue.Location
	evt.StartTime = ue.StartTime
	evt.EndTime = ue.EndTime
	evt.WeekType = ue.WeekType
	evt.Days = ue.Days
	evt.Color = ue.Color
	evt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEvent(ctx, evt)
}

func (svc *service) Delete(ctx context.Context, ownerID, id string) error {
	return svc.repo.DeleteEvent(ctx, ownerID, id)
}

func (svc *service) WeekSettings(ctx context.Context, ownerID string) (WeekSettings, error) {
	ws, err := svc.repo.GetWeekSettings(ctx, ownerID)
	if err != nil {
		if errors.Cause(err) == ErrWeekSettingsNotFound {
			return DefaultWeekSettings(ownerID), nil
		}
		return WeekSettings{}, err
	}
	return ws, nil
}

func (svc *service) SaveWeekSettings(ctx context.Context, ownerID string, uw UpdateWeekSettings) (WeekSettings, error) {
	ws := WeekSettings{
		OwnerID:         ownerID,
		WeekType:        uw.WeekType,
		WeekInterval:    uw.WeekInterval,
		CustomWeekNames: uw.CustomWeekNames,
		UpdatedAt:       time.Now().UTC(),
	}
	if uw.ReferenceDate != "" {
		ref, err := time.ParseInLocation("2006-01-02", uw.ReferenceDate, time.UTC)
		if err != nil {
			return WeekSettings{}, errors.Wrap(err, "parsing reference date")
		}
		ws.ReferenceDate = ref
	}
	return svc.repo.SaveWeekSettings(ctx, ws)
}
