package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"counselling_backend/internals/features/home/notifications/model"
	"counselling_backend/internals/helpers/applog"
	"counselling_backend/internals/helpers/mailer"
	"counselling_backend/internals/helpers/metrics"
)

// MailSink is the part of the mailer the dispatcher needs.
type MailSink interface {
	Deliver(ctx context.Context, msg mailer.Message)
}

// Dispatcher drains envelopes from a bounded queue on background workers:
// notices are stored, mails are fanned out concurrently.
type Dispatcher struct {
	db      *gorm.DB
	mail    MailSink
	queue   chan Envelope
	workers int
	log     *zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(db *gorm.DB, mail MailSink, buffer, workers int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		db:      db,
		mail:    mail,
		queue:   make(chan Envelope, buffer),
		workers: workers,
		log:     applog.WithComponent("notifications"),
	}
}

// Start launches the workers. They exit when Close is called or ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case env, ok := <-d.queue:
					if !ok {
						return
					}
					d.deliver(ctx, env)
				}
			}
		}()
	}
	d.log.Info().Int("workers", d.workers).Int("buffer", cap(d.queue)).Msg("notification dispatcher started")
}

// Publish enqueues env. A full or closed queue drops it.
func (d *Dispatcher) Publish(_ context.Context, env Envelope) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.NotificationsDropped.Inc()
		d.log.Warn().Str("event", env.Event).Msg("dispatcher closed, envelope dropped")
		return
	}
	select {
	case d.queue <- env:
	default:
		metrics.NotificationsDropped.Inc()
		d.log.Warn().Str("event", env.Event).Msg("notification queue full, envelope dropped")
	}
}

// Close stops accepting envelopes and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, env Envelope) {
	for _, n := range env.Notices {
		row := model.NotificationModel{
			NotificationUserID:    n.UserID,
			NotificationCaseID:    n.CaseID,
			NotificationSessionID: n.SessionID,
			NotificationDetails:   n.Details,
		}
		if err := d.db.WithContext(ctx).Create(&row).Error; err != nil {
			metrics.Notifications.WithLabelValues("inapp", "error").Inc()
			d.log.Error().Err(err).Str("event", env.Event).Str("user_id", n.UserID.String()).Msg("store notification failed")
			continue
		}
		metrics.Notifications.WithLabelValues("inapp", "ok").Inc()
	}

	if len(env.Mails) == 0 || d.mail == nil {
		return
	}
	// Deliver swallows its own errors, so Wait only joins the sends
	var g errgroup.Group
	for _, m := range env.Mails {
		m := m
		g.Go(func() error {
			d.mail.Deliver(ctx, m)
			return nil
		})
	}
	_ = g.Wait()
}
