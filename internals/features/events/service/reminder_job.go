package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"counselling_backend/internals/features/events/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/applog"
	"counselling_backend/internals/helpers/dbtime"
	"counselling_backend/internals/helpers/mailer"
	"counselling_backend/internals/helpers/metrics"
)

const EventReminder = "event.reminder"

// ReminderJob mails participating counsellors ahead of upcoming events: weekly
// reminders fire on the event's weekday, monthly ones on its day of month.
type ReminderJob struct {
	DB        *gorm.DB
	Publisher notifService.Publisher
	log       *zerolog.Logger
}

func NewReminderJob(db *gorm.DB, pub notifService.Publisher) *ReminderJob {
	return &ReminderJob{DB: db, Publisher: pub, log: applog.WithComponent("reminders")}
}

// Due reports whether an event dated eventDate with the given reminders fires on today.
// Both values are calendar dates.
func Due(reminders []string, eventDate, today time.Time) bool {
	if today.After(eventDate) {
		return false
	}
	for _, r := range reminders {
		switch r {
		case model.ReminderWeekly:
			if today.Weekday() == eventDate.Weekday() {
				return true
			}
		case model.ReminderMonthly:
			if today.Day() == eventDate.Day() {
				return true
			}
		}
	}
	return false
}

// Run sends the reminders due on today and returns how many events were reminded.
func (j *ReminderJob) Run(ctx context.Context, today time.Time) (int, error) {
	today = dbtime.DateOnly(today)

	var events []model.EventModel
	if err := j.DB.WithContext(ctx).Where("event_date >= ?", today).Find(&events).Error; err != nil {
		return 0, err
	}

	sent := 0
	for i := range events {
		ev := &events[i]
		if !Due(ev.Reminders(), ev.EventDate, today) {
			continue
		}
		emails, err := j.counsellorEmails(ctx, ev.Counsellors())
		if err != nil {
			return sent, err
		}
		if len(emails) == 0 {
			continue
		}
		j.Publisher.Publish(ctx, notifService.Envelope{
			Event: EventReminder,
			Mails: []mailer.Message{reminderMail(ev, emails)},
		})
		metrics.ReminderMails.Inc()
		j.log.Info().Str("event_id", ev.EventID.String()).Int("recipients", len(emails)).Msg("reminder sent")
		sent++
	}
	return sent, nil
}

func (j *ReminderJob) counsellorEmails(ctx context.Context, ids []uuid.UUID) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var emails []string
	err := j.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id IN ?", ids).Order("email ASC").Pluck("email", &emails).Error
	return emails, err
}

func reminderMail(ev *model.EventModel, to []string) mailer.Message {
	when := ev.EventDate.Format("January 2, 2006")
	if ev.EventStartTime != "" {
		when += " " + ev.EventStartTime
	}
	return mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("Reminder: %s", ev.EventTitle),
		Text:    fmt.Sprintf("The event %q is scheduled on %s at %s. Please be prepared.", ev.EventTitle, when, ev.EventVenue),
	}
}

// Schedule registers the job on a cron running in the service timezone. The caller
// starts and stops the returned cron.
func (j *ReminderJob) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(dbtime.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		n, err := j.Run(ctx, dbtime.Now())
		if err != nil {
			j.log.Error().Err(err).Msg("reminder run failed")
			return
		}
		j.log.Info().Int("events", n).Msg("reminder run finished")
	})
	if err != nil {
		return nil, fmt.Errorf("add reminder cron %q: %w", spec, err)
	}
	return c, nil
}
