package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"counselling_backend/internals/features/home/notifications/model"
	"counselling_backend/internals/helpers/mailer"
	"counselling_backend/internals/testutil"
)

type mailRecorder struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *mailRecorder) Deliver(_ context.Context, msg mailer.Message) {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
}

func (m *mailRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestDispatcherDeliversAndStops(t *testing.T) {
	db := testutil.NewDB(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mails := &mailRecorder{}
	d := NewDispatcher(db, mails, 8, 2)
	d.Start(context.Background())

	user := uuid.New()
	caseID := uuid.New()
	d.Publish(context.Background(), Envelope{
		Event:   "session.created",
		Notices: []Notice{{UserID: user, CaseID: &caseID, Details: "New session requested"}},
		Mails: []mailer.Message{
			{To: []string{"a@school.test"}, Subject: "one"},
			{To: []string{"b@school.test"}, Subject: "two"},
		},
	})
	d.Publish(context.Background(), Envelope{
		Event:   "session.accepted",
		Notices: []Notice{{UserID: user, Details: "Session accepted"}},
	})
	d.Close()

	assert.Equal(t, 2, mails.count())
	var rows []model.NotificationModel
	require.NoError(t, db.Where("notification_user_id = ?", user).Find(&rows).Error)
	assert.Len(t, rows, 2)

	// publishing after Close is a silent drop
	d.Publish(context.Background(), Envelope{Event: "late"})
	d.Close()
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	db := testutil.NewDB(t)
	mails := &mailRecorder{}
	// not started: nothing drains the queue
	d := NewDispatcher(db, mails, 1, 1)

	d.Publish(context.Background(), Envelope{Event: "first", Mails: []mailer.Message{{To: []string{"a@school.test"}}}})
	d.Publish(context.Background(), Envelope{Event: "second", Mails: []mailer.Message{{To: []string{"b@school.test"}}}})
	assert.Len(t, d.queue, 1)

	d.Start(context.Background())
	d.Close()
	assert.Equal(t, 1, mails.count())
}
