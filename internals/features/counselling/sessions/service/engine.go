package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	formModel "counselling_backend/internals/features/counselling/forms/model"
	"counselling_backend/internals/features/counselling/sessions/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	"counselling_backend/internals/helpers/applog"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/helpers/dbtime"
	"counselling_backend/internals/helpers/metrics"
)

// Engine runs the case/session lifecycle. Every multi-row transition commits in one
// transaction; notifications are published only after the commit.
type Engine struct {
	DB        *gorm.DB
	Publisher notifService.Publisher
	log       *zerolog.Logger
}

func NewEngine(db *gorm.DB, pub notifService.Publisher) *Engine {
	return &Engine{
		DB:        db,
		Publisher: pub,
		log:       applog.WithComponent("sessions"),
	}
}

/* =========================================================
   Codes & counters
========================================================= */

func CaseCode(n int64) string {
	return fmt.Sprintf("#CS_%02d", n)
}

func SessionCode(caseCode string, seq int) string {
	return fmt.Sprintf("%s/SC_%02d", caseCode, seq)
}

// nextCounter bumps the named counter and returns the new value.
// Callers must be inside the transaction that consumes the number.
func nextCounter(tx *gorm.DB, name string) (int64, error) {
	bump := func() (int64, error) {
		res := tx.Model(&model.CounterModel{}).
			Where("counter_name = ?", name).
			Update("counter_value", gorm.Expr("counter_value + 1"))
		return res.RowsAffected, res.Error
	}

	n, err := bump()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.CounterModel{CounterName: name}).Error; err != nil {
			return 0, err
		}
		if _, err := bump(); err != nil {
			return 0, err
		}
	}

	var c model.CounterModel
	if err := tx.Where("counter_name = ?", name).Take(&c).Error; err != nil {
		return 0, err
	}
	return c.CounterValue, nil
}

// appendSession issues the case's next session sequence and inserts s at the end of the case.
func appendSession(tx *gorm.DB, kase *model.CaseModel, s *model.SessionModel) error {
	if err := tx.Model(&model.CaseModel{}).
		Where("case_id = ?", kase.CaseID).
		Update("case_session_seq", gorm.Expr("case_session_seq + 1")).Error; err != nil {
		return err
	}
	if err := tx.Where("case_id = ?", kase.CaseID).Take(kase).Error; err != nil {
		return err
	}
	seq := kase.CaseSessionSeq

	s.SessionID = uuid.Nil
	s.SessionSeq = seq
	s.SessionCode = SessionCode(kase.CaseCode, seq)
	s.SessionCaseID = kase.CaseID
	s.SessionFormID = kase.CaseFormID
	return tx.Create(s).Error
}

/* =========================================================
   Loaders (always called with the transaction handle)
========================================================= */

func loadForm(tx *gorm.DB, id uuid.UUID) (*formModel.FormModel, error) {
	var f formModel.FormModel
	if err := tx.Where("form_id = ?", id).Take(&f).Error; err != nil {
		return nil, apperr.FromDB(err, "form")
	}
	return &f, nil
}

func loadUser(tx *gorm.DB, id uuid.UUID, what string) (*userModel.UserModel, error) {
	var u userModel.UserModel
	if err := tx.Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}
	return &u, nil
}

func loadSession(tx *gorm.DB, id uuid.UUID) (*model.SessionModel, error) {
	var s model.SessionModel
	if err := tx.Where("session_id = ?", id).Take(&s).Error; err != nil {
		return nil, apperr.FromDB(err, "session")
	}
	return &s, nil
}

func loadCase(tx *gorm.DB, id uuid.UUID) (*model.CaseModel, error) {
	var c model.CaseModel
	if err := tx.Where("case_id = ?", id).Take(&c).Error; err != nil {
		return nil, apperr.FromDB(err, "case")
	}
	return &c, nil
}

/* =========================================================
   Access rules (counsellors only; other roles are narrowed by the routes)
========================================================= */

// ownSession lets a counsellor act only on sessions assigned to them, the same rows
// GetSession shows them.
func ownSession(actor helperAuth.ActingUser, s *model.SessionModel) error {
	if actor.IsCounsellor() && s.SessionCounsellorID != actor.ID {
		return apperr.NotFound("session not found")
	}
	return nil
}

// caseAccess admits a counsellor who holds a session in the case or was referred to it.
func caseAccess(tx *gorm.DB, actor helperAuth.ActingUser, caseID uuid.UUID) error {
	if !actor.IsCounsellor() {
		return nil
	}
	var n int64
	if err := tx.Model(&model.SessionModel{}).
		Where("session_case_id = ? AND session_counsellor_id = ?", caseID, actor.ID).
		Count(&n).Error; err != nil {
		return apperr.FromDB(err, "session")
	}
	if n > 0 {
		return nil
	}
	if err := tx.Model(&model.CaseReferralModel{}).
		Where("case_referral_case_id = ? AND case_referral_user_id = ?", caseID, actor.ID).
		Count(&n).Error; err != nil {
		return apperr.FromDB(err, "case referral")
	}
	if n == 0 {
		return apperr.NotFound("case not found")
	}
	return nil
}

func updateSession(tx *gorm.DB, s *model.SessionModel, fields map[string]any) error {
	if err := tx.Model(&model.SessionModel{}).Where("session_id = ?", s.SessionID).Updates(fields).Error; err != nil {
		return apperr.FromDB(err, "session")
	}
	return tx.Where("session_id = ?", s.SessionID).Take(s).Error
}

func updateCase(tx *gorm.DB, c *model.CaseModel, fields map[string]any) error {
	if err := tx.Model(&model.CaseModel{}).Where("case_id = ?", c.CaseID).Updates(fields).Error; err != nil {
		return apperr.FromDB(err, "case")
	}
	return tx.Where("case_id = ?", c.CaseID).Take(c).Error
}

/* =========================================================
   Validation helpers
========================================================= */

func validateWindow(date time.Time, start, end string) error {
	if date.IsZero() {
		return apperr.Validation("session_date is required")
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return apperr.Validation("session_time.start and session_time.end are required")
	}
	if !dbtime.ValidClock(start) || !dbtime.ValidClock(end) {
		return apperr.Validation("session_time must be HH:MM")
	}
	if start >= end {
		return apperr.Validation("session_time.start must be before session_time.end")
	}
	return nil
}

// closable covers the states a close, refer or continue may start from.
func closable(status string) bool {
	return status == model.SessionStatusPending || status == model.SessionStatusProgress
}

/* =========================================================
   Publishing
========================================================= */

func (e *Engine) finish(ctx context.Context, action string, env *notifService.Envelope, s *model.SessionModel) {
	metrics.SessionTransitions.WithLabelValues(action).Inc()
	ev := e.log.Info().Str("action", action)
	if s != nil {
		ev = ev.Str("session_code", s.SessionCode).Str("session_id", s.SessionID.String())
	}
	ev.Msg("session transition")

	if env == nil || e.Publisher == nil {
		return
	}
	e.Publisher.Publish(ctx, *env)
}
