package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counselling_backend/internals/features/counselling/sessions/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/helpers/apperr"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/helpers/dbtime"
)

type CreateSessionInput struct {
	FormID       uuid.UUID
	Date         time.Time
	Start        string
	End          string
	Type         string
	Mode         string
	CounsellorID uuid.UUID
	Description  string
	Report       []string
}

// CreateSession opens a new case with its first session (SC_01), both pending.
func (e *Engine) CreateSession(ctx context.Context, actor helperAuth.ActingUser, in CreateSessionInput) (*model.SessionModel, error) {
	if in.FormID == uuid.Nil {
		return nil, apperr.Validation("form_id is required")
	}
	if in.CounsellorID == uuid.Nil {
		return nil, apperr.Validation("counsellor is required")
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, apperr.Validation("type is required")
	}
	if err := validateWindow(in.Date, in.Start, in.End); err != nil {
		return nil, err
	}

	var (
		sess model.SessionModel
		env  notifService.Envelope
	)
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		form, err := loadForm(tx, in.FormID)
		if err != nil {
			return err
		}
		counsellor, err := loadUser(tx, in.CounsellorID, "counsellor")
		if err != nil {
			return err
		}

		n, err := nextCounter(tx, model.CounterCases)
		if err != nil {
			return apperr.Internal("case numbering failed", err)
		}
		kase := model.CaseModel{
			CaseCode:   CaseCode(n),
			CaseFormID: form.FormID,
			CaseStatus: model.CaseStatusPending,
		}
		if err := tx.Create(&kase).Error; err != nil {
			return apperr.FromDB(err, "case")
		}

		sess = model.SessionModel{
			SessionCounsellorID: counsellor.ID,
			SessionDate:         dbtime.DateOnly(in.Date),
			SessionStartTime:    strings.TrimSpace(in.Start),
			SessionEndTime:      strings.TrimSpace(in.End),
			SessionType:         strings.TrimSpace(in.Type),
			SessionMode:         in.Mode,
			SessionDescription:  in.Description,
			SessionStatus:       model.SessionStatusPending,
		}
		sess.SetReports(in.Report)
		if err := appendSession(tx, &kase, &sess); err != nil {
			return apperr.FromDB(err, "session")
		}

		env = requestEnvelope(EventSessionCreated, form, counsellor, &sess, kase.CaseCode, "New session requested")
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.finish(ctx, "create", &env, &sess)
	return &sess, nil
}

// AcceptSession moves the session and its case to progress. Repeating it is harmless
// for the stored state but notifies again.
func (e *Engine) AcceptSession(ctx context.Context, actor helperAuth.ActingUser, sessionID uuid.UUID) (*model.SessionModel, error) {
	var (
		sess *model.SessionModel
		env  notifService.Envelope
	)
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sess, err = loadSession(tx, sessionID); err != nil {
			return err
		}
		if err := ownSession(actor, sess); err != nil {
			return err
		}
		kase, err := loadCase(tx, sess.SessionCaseID)
		if err != nil {
			return err
		}
		if sess.SessionStatus == model.SessionStatusCompleted || sess.SessionStatus == model.SessionStatusCancelled {
			return apperr.InvalidState("session %s is %s and cannot be accepted", sess.SessionCode, sess.SessionStatus)
		}

		if err := updateSession(tx, sess, map[string]any{"session_status": model.SessionStatusProgress}); err != nil {
			return err
		}
		if err := updateCase(tx, kase, map[string]any{"case_status": model.CaseStatusProgress}); err != nil {
			return err
		}

		form, err := loadForm(tx, sess.SessionFormID)
		if err != nil {
			return err
		}
		counsellor, err := loadUser(tx, sess.SessionCounsellorID, "counsellor")
		if err != nil {
			return err
		}
		env = acceptedEnvelope(form, counsellor, sess, kase.CaseCode)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.finish(ctx, "accept", &env, sess)
	return sess, nil
}

type RescheduleInput struct {
	Date   time.Time
	Start  string
	End    string
	Remark string
}

// RescheduleSession is allowed from pending or rescheduled only. The guard runs before
// anything is written.
func (e *Engine) RescheduleSession(ctx context.Context, actor helperAuth.ActingUser, sessionID uuid.UUID, in RescheduleInput) (*model.SessionModel, error) {
	if err := validateWindow(in.Date, in.Start, in.End); err != nil {
		return nil, err
	}

	var (
		sess *model.SessionModel
		env  notifService.Envelope
	)
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sess, err = loadSession(tx, sessionID); err != nil {
			return err
		}
		if err := ownSession(actor, sess); err != nil {
			return err
		}
		if sess.SessionStatus != model.SessionStatusPending && sess.SessionStatus != model.SessionStatusRescheduled {
			return apperr.InvalidState("session %s is %s and cannot be rescheduled", sess.SessionCode, sess.SessionStatus)
		}
		kase, err := loadCase(tx, sess.SessionCaseID)
		if err != nil {
			return err
		}

		oldDate, oldClock := dbtime.FormatDisplay(sess.SessionDate), clock(sess)
		remarkCol := "session_reschedule_remark"
		if actor.IsCounsellor() {
			remarkCol = "session_c_reschedule_remark"
		}
		if err := updateSession(tx, sess, map[string]any{
			"session_date":       dbtime.DateOnly(in.Date),
			"session_start_time": strings.TrimSpace(in.Start),
			"session_end_time":   strings.TrimSpace(in.End),
			"session_status":     model.SessionStatusProgress,
			remarkCol:            in.Remark,
		}); err != nil {
			return err
		}
		if kase.CaseStatus == model.CaseStatusPending {
			if err := updateCase(tx, kase, map[string]any{"case_status": model.CaseStatusProgress}); err != nil {
				return err
			}
		}

		form, err := loadForm(tx, sess.SessionFormID)
		if err != nil {
			return err
		}
		counsellor, err := loadUser(tx, sess.SessionCounsellorID, "counsellor")
		if err != nil {
			return err
		}
		env = rescheduledEnvelope(form, counsellor, sess, kase.CaseCode, oldDate, oldClock, in.Remark)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.finish(ctx, "reschedule", &env, sess)
	return sess, nil
}

// CancelSession is permitted from any status and cancels the owning case as well.
func (e *Engine) CancelSession(ctx context.Context, actor helperAuth.ActingUser, sessionID uuid.UUID, remark string) error {
	var (
		sess *model.SessionModel
		env  notifService.Envelope
	)
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sess, err = loadSession(tx, sessionID); err != nil {
			return err
		}
		if err := ownSession(actor, sess); err != nil {
			return err
		}

		remarkCol := "session_cancel_remark"
		if actor.IsCounsellor() {
			remarkCol = "session_c_cancel_remark"
		}
		if err := updateSession(tx, sess, map[string]any{
			"session_status": model.SessionStatusCancelled,
			remarkCol:        remark,
		}); err != nil {
			return err
		}

		caseCode := ""
		kase, err := loadCase(tx, sess.SessionCaseID)
		switch {
		case err == nil:
			if err := updateCase(tx, kase, map[string]any{"case_status": model.CaseStatusCancelled}); err != nil {
				return err
			}
			caseCode = kase.CaseCode
		case !apperr.Is(err, apperr.KindNotFound):
			return err
		}

		form, err := loadForm(tx, sess.SessionFormID)
		if err != nil {
			return err
		}
		env = cancelledEnvelope(form, sess, caseCode, remark)
		return nil
	})
	if err != nil {
		return err
	}

	e.finish(ctx, "cancel", &env, sess)
	return nil
}
