package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ReminderWeekly  = "weekly"
	ReminderMonthly = "monthly"
)

// EventTypes lists the accepted event categories.
var EventTypes = []string{
	"Team meetings",
	"session / workshop",
	"Other meeting",
	"Invigilation",
	"substitution",
	"lesson",
}

type EventModel struct {
	EventID    uuid.UUID `json:"event_id" gorm:"column:event_id;type:uuid;primaryKey"`
	EventTitle string    `json:"event_title" gorm:"column:event_title;type:varchar(255);not null"`
	EventDate  time.Time `json:"event_date" gorm:"column:event_date;type:date;not null;index"`
	EventVenue string    `json:"event_venue" gorm:"column:event_venue;type:varchar(255)"`
	EventGuest string    `json:"event_guest" gorm:"column:event_guest;type:varchar(255)"`
	EventType  string    `json:"event_type" gorm:"column:event_type;type:varchar(64)"`

	// JSON array: "weekly" and/or "monthly"
	EventReminder datatypes.JSON `json:"event_reminder" gorm:"column:event_reminder"`

	EventDetails                string `json:"event_details" gorm:"column:event_details;type:text"`
	EventRequisitionDescription string `json:"event_requisition_description" gorm:"column:event_requisition_description;type:text"`
	EventCreator                string `json:"event_creator" gorm:"column:event_creator;type:varchar(120)"`

	EventStartTime string `json:"event_start_time" gorm:"column:event_start_time;type:varchar(5)"`
	EventEndTime   string `json:"event_end_time" gorm:"column:event_end_time;type:varchar(5)"`

	// JSON array of participating counsellor ids
	EventCounsellors datatypes.JSON `json:"event_counsellors" gorm:"column:event_counsellors"`

	EventCreatedAt time.Time `json:"event_created_at" gorm:"column:event_created_at;autoCreateTime"`
	EventUpdatedAt time.Time `json:"event_updated_at" gorm:"column:event_updated_at;autoUpdateTime"`
}

func (EventModel) TableName() string {
	return "events"
}

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	if len(m.EventReminder) == 0 {
		m.EventReminder = datatypes.JSON("[]")
	}
	if len(m.EventCounsellors) == 0 {
		m.EventCounsellors = datatypes.JSON("[]")
	}
	return nil
}

func (m *EventModel) Reminders() []string {
	out := []string{}
	if len(m.EventReminder) > 0 {
		_ = json.Unmarshal(m.EventReminder, &out)
	}
	return out
}

func (m *EventModel) SetReminders(in []string) {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	m.EventReminder = datatypes.JSON(b)
}

func (m *EventModel) Counsellors() []uuid.UUID {
	out := []uuid.UUID{}
	if len(m.EventCounsellors) > 0 {
		_ = json.Unmarshal(m.EventCounsellors, &out)
	}
	return out
}

func (m *EventModel) SetCounsellors(in []uuid.UUID) {
	if in == nil {
		in = []uuid.UUID{}
	}
	b, _ := json.Marshal(in)
	m.EventCounsellors = datatypes.JSON(b)
}
