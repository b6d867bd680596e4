package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"counselling_backend/internals/features/events/model"
	"counselling_backend/internals/features/events/service"
	"counselling_backend/internals/helpers/dbtime"
)

// EventRequest serves create (POST) and update (PATCH); absent fields stay untouched on update.
type EventRequest struct {
	Title                  *string     `json:"title" validate:"omitempty,max=255"`
	Date                   *string     `json:"date"`
	Venue                  *string     `json:"venue" validate:"omitempty,max=255"`
	Guest                  *string     `json:"guest" validate:"omitempty,max=255"`
	Type                   *string     `json:"type"`
	Remainder              []string    `json:"remainder" validate:"omitempty,dive,oneof=weekly monthly"`
	Details                *string     `json:"details"`
	RequisitionDescription *string     `json:"requisition_description"`
	StartTime              *string     `json:"start_time"`
	EndTime                *string     `json:"end_time"`
	Counselor              []uuid.UUID `json:"counselor"`
}

// ToInput parses the date; the returned error is already a client error.
func (r EventRequest) ToInput() (service.EventInput, error) {
	in := service.EventInput{
		Title:                  r.Title,
		Venue:                  r.Venue,
		Guest:                  r.Guest,
		Type:                   r.Type,
		Reminders:              r.Remainder,
		Details:                r.Details,
		RequisitionDescription: r.RequisitionDescription,
		StartTime:              r.StartTime,
		EndTime:                r.EndTime,
		Counsellors:            r.Counselor,
	}
	if r.Date != nil && strings.TrimSpace(*r.Date) != "" {
		d, err := parseEventDate(*r.Date)
		if err != nil {
			return in, err
		}
		in.Date = &d
	}
	return in, nil
}

// accepts YYYY-MM-DD or a full RFC3339 timestamp from the date picker
func parseEventDate(s string) (time.Time, error) {
	if d, err := dbtime.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return dbtime.DateOnly(t.In(dbtime.Location())), nil
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type EventResponse struct {
	ID                     uuid.UUID   `json:"_id"`
	Title                  string      `json:"title"`
	Date                   string      `json:"date"`
	Venue                  string      `json:"venue"`
	Guest                  string      `json:"guest"`
	Type                   string      `json:"type"`
	Remainder              []string    `json:"remainder"`
	Details                string      `json:"details"`
	RequisitionDescription string      `json:"requisition_description"`
	Creator                string      `json:"creator"`
	StartTime              string      `json:"start_time"`
	EndTime                string      `json:"end_time"`
	Counselor              []uuid.UUID `json:"counselor"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

func FromModel(m *model.EventModel) EventResponse {
	return EventResponse{
		ID:                     m.EventID,
		Title:                  m.EventTitle,
		Date:                   m.EventDate.Format(dbtime.DateLayout),
		Venue:                  m.EventVenue,
		Guest:                  m.EventGuest,
		Type:                   m.EventType,
		Remainder:              m.Reminders(),
		Details:                m.EventDetails,
		RequisitionDescription: m.EventRequisitionDescription,
		Creator:                m.EventCreator,
		StartTime:              m.EventStartTime,
		EndTime:                m.EventEndTime,
		Counselor:              m.Counsellors(),
		CreatedAt:              m.EventCreatedAt,
		UpdatedAt:              m.EventUpdatedAt,
	}
}

func FromModels(rows []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
