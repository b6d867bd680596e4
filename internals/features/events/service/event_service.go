package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counselling_backend/internals/features/events/model"
	"counselling_backend/internals/helpers/apperr"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/helpers/dbtime"
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService { return &EventService{DB: db} }

// EventInput is shared by create and update; on update nil pointers keep the stored value.
type EventInput struct {
	Title                  *string
	Date                   *time.Time
	Venue                  *string
	Guest                  *string
	Type                   *string
	Reminders              []string
	Details                *string
	RequisitionDescription *string
	StartTime              *string
	EndTime                *string
	Counsellors            []uuid.UUID
}

func validType(t string) bool {
	for _, et := range model.EventTypes {
		if strings.EqualFold(et, t) {
			return true
		}
	}
	return false
}

func (in *EventInput) validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return apperr.Validation("title cannot be empty")
	}
	if in.Type != nil && *in.Type != "" && !validType(*in.Type) {
		return apperr.Validation("type must be one of: %s", strings.Join(model.EventTypes, ", "))
	}
	for _, r := range in.Reminders {
		if r != model.ReminderWeekly && r != model.ReminderMonthly {
			return apperr.Validation("reminder must be weekly or monthly")
		}
	}
	for _, t := range []*string{in.StartTime, in.EndTime} {
		if t != nil && *t != "" && !dbtime.ValidClock(*t) {
			return apperr.Validation("event times must be HH:MM")
		}
	}
	if in.StartTime != nil && in.EndTime != nil && *in.StartTime != "" && *in.EndTime != "" && *in.StartTime >= *in.EndTime {
		return apperr.Validation("start time must be before end time")
	}
	return nil
}

func (in *EventInput) apply(m *model.EventModel) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&m.EventTitle, in.Title)
	set(&m.EventVenue, in.Venue)
	set(&m.EventGuest, in.Guest)
	set(&m.EventType, in.Type)
	set(&m.EventDetails, in.Details)
	set(&m.EventRequisitionDescription, in.RequisitionDescription)
	set(&m.EventStartTime, in.StartTime)
	set(&m.EventEndTime, in.EndTime)
	if in.Date != nil {
		m.EventDate = dbtime.DateOnly(*in.Date)
	}
	if in.Reminders != nil {
		m.SetReminders(in.Reminders)
	}
	if in.Counsellors != nil {
		m.SetCounsellors(in.Counsellors)
	}
}

func (s *EventService) Create(ctx context.Context, actor helperAuth.ActingUser, in EventInput) (*model.EventModel, error) {
	if in.Title == nil || in.Date == nil || in.Date.IsZero() {
		return nil, apperr.Validation("title and date are required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := model.EventModel{EventCreator: actor.Name}
	in.apply(&m)
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, apperr.FromDB(err, "event")
	}
	return &m, nil
}

func (s *EventService) Update(ctx context.Context, id uuid.UUID, in EventInput) (*model.EventModel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var m model.EventModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Take(&m).Error; err != nil {
			return apperr.FromDB(err, "event")
		}
		in.apply(&m)
		if m.EventStartTime != "" && m.EventEndTime != "" && m.EventStartTime >= m.EventEndTime {
			return apperr.Validation("start time must be before end time")
		}
		return apperr.FromDB(tx.Save(&m).Error, "event")
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*model.EventModel, error) {
	var m model.EventModel
	if err := s.DB.WithContext(ctx).Where("event_id = ?", id).Take(&m).Error; err != nil {
		return nil, apperr.FromDB(err, "event")
	}
	return &m, nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("event_id = ?", id).Delete(&model.EventModel{})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "event")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("event not found")
	}
	return nil
}

func (s *EventService) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return apperr.Validation("a non-empty list of event ids is required")
	}
	var failed []string
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			failed = append(failed, id.String())
		}
	}
	if len(failed) > 0 {
		return apperr.Partial(fmt.Sprintf("some event deletions failed: %s", strings.Join(failed, ", ")), failed)
	}
	return nil
}

// List returns events newest first, optionally filtered by title.
func (s *EventService) List(ctx context.Context, search string, limit, offset int) ([]model.EventModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.EventModel{})
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		q = q.Where("LOWER(event_title) LIKE ?", "%"+term+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "event")
	}
	if limit <= 0 {
		limit = 10
	}
	var rows []model.EventModel
	if err := q.Order("event_date DESC").Order("event_created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "event")
	}
	return rows, total, nil
}

// CalendarEntry is the shape the calendar widget consumes.
type CalendarEntry struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s *EventService) Calendar(ctx context.Context) ([]CalendarEntry, error) {
	var rows []model.EventModel
	if err := s.DB.WithContext(ctx).Select("event_id", "event_title", "event_date").
		Order("event_date ASC").Find(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "event")
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("no events found")
	}
	out := make([]CalendarEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, CalendarEntry{ID: r.EventID, Title: r.EventTitle, Start: r.EventDate, End: r.EventDate})
	}
	return out, nil
}
