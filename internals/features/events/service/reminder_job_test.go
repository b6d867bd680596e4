package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counselling_backend/internals/features/events/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/testutil"
)

func TestDue(t *testing.T) {
	event := testutil.Date(2025, 3, 31) // Monday

	assert.True(t, Due([]string{model.ReminderWeekly}, event, testutil.Date(2025, 3, 17)))
	assert.False(t, Due([]string{model.ReminderWeekly}, event, testutil.Date(2025, 3, 18)))
	assert.True(t, Due([]string{model.ReminderMonthly}, event, testutil.Date(2025, 1, 31)))
	assert.False(t, Due([]string{model.ReminderMonthly}, event, testutil.Date(2025, 3, 17)))
	assert.True(t, Due([]string{model.ReminderWeekly}, event, event))
	assert.False(t, Due([]string{model.ReminderWeekly}, event, testutil.Date(2025, 4, 7)))
	assert.False(t, Due(nil, event, testutil.Date(2025, 3, 17)))
}

func TestReminderRun(t *testing.T) {
	db := testutil.NewDB(t)
	rec := notifService.NewRecorder()
	job := NewReminderJob(db, rec)
	ctx := context.Background()

	a := testutil.CreateCounsellor(t, db, "Asha Rao")
	b := testutil.CreateCounsellor(t, db, "Ben Paul")

	due := model.EventModel{EventTitle: "Board review", EventDate: testutil.Date(2025, 3, 31), EventVenue: "Room 4"}
	due.SetReminders([]string{model.ReminderWeekly})
	due.SetCounsellors([]uuid.UUID{a.ID, b.ID})

	wrongDay := model.EventModel{EventTitle: "Wrong day", EventDate: testutil.Date(2025, 4, 1)}
	wrongDay.SetReminders([]string{model.ReminderWeekly})
	wrongDay.SetCounsellors([]uuid.UUID{a.ID})

	past := model.EventModel{EventTitle: "Past", EventDate: testutil.Date(2025, 3, 10)}
	past.SetReminders([]string{model.ReminderWeekly})
	past.SetCounsellors([]uuid.UUID{a.ID})

	nobody := model.EventModel{EventTitle: "Nobody", EventDate: testutil.Date(2025, 3, 24)}
	nobody.SetReminders([]string{model.ReminderWeekly})

	for _, ev := range []*model.EventModel{&due, &wrongDay, &past, &nobody} {
		require.NoError(t, db.Create(ev).Error)
	}

	n, err := job.Run(ctx, testutil.Date(2025, 3, 17))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	env, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, EventReminder, env.Event)
	require.Len(t, env.Mails, 1)
	mail := env.Mails[0]
	assert.ElementsMatch(t, []string{a.Email, b.Email}, mail.To)
	assert.Equal(t, "Reminder: Board review", mail.Subject)
	assert.Contains(t, mail.Text, `"Board review" is scheduled on March 31, 2025 at Room 4`)
}

func TestReminderSchedule(t *testing.T) {
	job := NewReminderJob(testutil.NewDB(t), notifService.NewRecorder())

	_, err := job.Schedule("not a cron")
	assert.Error(t, err)

	c, err := job.Schedule("0 0 * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
