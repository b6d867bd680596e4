package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	formModel "counselling_backend/internals/features/counselling/forms/model"
	"counselling_backend/internals/features/counselling/sessions/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/helpers/apperr"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/helpers/dbtime"
)

// EntryKind is the outcome an entry request resolves to.
type EntryKind string

const (
	EntryEdit             EntryKind = "edit"
	EntryClose            EntryKind = "close"
	EntryReferWithSession EntryKind = "refer"
	EntryReferFeedback    EntryKind = "refer_feedback"
	EntryContinue         EntryKind = "continue"
)

// EntryRequest is an entry against the current session of a case.
type EntryRequest struct {
	SessionID uuid.UUID

	IsEditable  bool
	Close       bool
	Refer       *uuid.UUID
	WithSession bool

	ReasonForClosing string
	ConcernRaised    *time.Time

	CaseDetails  *string
	Interactions *string
	Report       []string

	// schedule of the session created by refer/continue
	Date        *time.Time
	Start       string
	End         string
	Description *string
	Mode        string
}

// EntryResult carries the state after the entry. NewSession is set when one was scheduled.
type EntryResult struct {
	Kind       EntryKind
	Case       *model.CaseModel
	Session    *model.SessionModel
	NewSession *model.SessionModel
}

// DecideEntry resolves the flags once: edit, close, refer with session, refer for feedback, continue.
func DecideEntry(req EntryRequest) EntryKind {
	switch {
	case req.IsEditable:
		return EntryEdit
	case req.Close:
		return EntryClose
	case req.Refer != nil && req.WithSession:
		return EntryReferWithSession
	case req.Refer != nil:
		return EntryReferFeedback
	default:
		return EntryContinue
	}
}

// entryState is what every handler starts from, loaded inside the transaction.
type entryState struct {
	tx    *gorm.DB
	actor helperAuth.ActingUser
	req   EntryRequest
	kase  *model.CaseModel
	sess  *model.SessionModel
	form  *formModel.FormModel
}

type entryHandler func(st *entryState, res *EntryResult) (*notifService.Envelope, error)

// AddEntry records an entry on the case and applies the resolved outcome.
func (e *Engine) AddEntry(ctx context.Context, actor helperAuth.ActingUser, caseID uuid.UUID, req EntryRequest) (*EntryResult, error) {
	if req.SessionID == uuid.Nil {
		return nil, apperr.Validation("session_id is required")
	}
	kind := DecideEntry(req)
	if err := validateEntry(kind, req); err != nil {
		return nil, err
	}

	var handle entryHandler
	switch kind {
	case EntryEdit:
		handle = e.handleEdit
	case EntryClose:
		handle = e.handleClose
	case EntryReferWithSession:
		handle = e.handleReferWithSession
	case EntryReferFeedback:
		handle = e.handleReferFeedback
	default:
		handle = e.handleContinue
	}

	res := &EntryResult{Kind: kind}
	var env *notifService.Envelope
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kase, err := loadCase(tx, caseID)
		if err != nil {
			return err
		}
		var sess model.SessionModel
		if err := tx.Where("session_id = ? AND session_case_id = ?", req.SessionID, kase.CaseID).
			Take(&sess).Error; err != nil {
			return apperr.FromDB(err, "session")
		}
		if err := ownSession(actor, &sess); err != nil {
			return err
		}
		form, err := loadForm(tx, kase.CaseFormID)
		if err != nil {
			return err
		}

		st := &entryState{tx: tx, actor: actor, req: req, kase: kase, sess: &sess, form: form}
		if env, err = handle(st, res); err != nil {
			return err
		}
		if req.ConcernRaised != nil {
			if err := updateCase(tx, kase, map[string]any{"case_concern_raised": dbtime.DateOnly(*req.ConcernRaised)}); err != nil {
				return err
			}
		}
		res.Case = kase
		res.Session = st.sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.finish(ctx, string(kind), env, res.Session)
	return res, nil
}

func validateEntry(kind EntryKind, req EntryRequest) error {
	switch kind {
	case EntryClose:
		if strings.TrimSpace(req.ReasonForClosing) == "" {
			return apperr.Validation("reason_for_closing is required to close a case")
		}
	case EntryReferWithSession, EntryContinue:
		if req.Date == nil {
			return apperr.Validation("session_date is required to schedule the next session")
		}
		return validateWindow(*req.Date, req.Start, req.End)
	case EntryReferFeedback:
		if *req.Refer == uuid.Nil {
			return apperr.Validation("refer must be a user id")
		}
	}
	return nil
}

// noteFields collects the note columns present in the request.
func noteFields(req EntryRequest) map[string]any {
	f := map[string]any{}
	if req.CaseDetails != nil {
		f["session_case_details"] = *req.CaseDetails
	}
	if req.Interactions != nil {
		f["session_interactions"] = *req.Interactions
	}
	if req.Report != nil {
		tmp := model.SessionModel{}
		tmp.SetReports(req.Report)
		f["session_report"] = tmp.SessionReport
	}
	return f
}

// completeCurrent stores the notes and marks the current session completed.
func completeCurrent(st *entryState) error {
	if !closable(st.sess.SessionStatus) {
		return apperr.InvalidState("session %s is %s; only pending or progress sessions can be completed",
			st.sess.SessionCode, st.sess.SessionStatus)
	}
	fields := noteFields(st.req)
	fields["session_status"] = model.SessionStatusCompleted
	return updateSession(st.tx, st.sess, fields)
}

// nextSession builds the follow-up of the current session for counsellor.
func nextSession(st *entryState, counsellor uuid.UUID, status string) *model.SessionModel {
	desc := st.sess.SessionDescription
	if st.req.Description != nil {
		desc = *st.req.Description
	}
	mode := st.sess.SessionMode
	if st.req.Mode != "" {
		mode = st.req.Mode
	}
	next := &model.SessionModel{
		SessionCounsellorID: counsellor,
		SessionDate:         dbtime.DateOnly(*st.req.Date),
		SessionStartTime:    strings.TrimSpace(st.req.Start),
		SessionEndTime:      strings.TrimSpace(st.req.End),
		SessionType:         st.sess.SessionType,
		SessionMode:         mode,
		SessionDescription:  desc,
		SessionStatus:       status,
	}
	next.SetReports(nil)
	return next
}

/* =========================================================
   Handlers
========================================================= */

func (e *Engine) handleEdit(st *entryState, res *EntryResult) (*notifService.Envelope, error) {
	fields := noteFields(st.req)
	if len(fields) == 0 {
		return nil, nil
	}
	return nil, updateSession(st.tx, st.sess, fields)
}

func (e *Engine) handleClose(st *entryState, res *EntryResult) (*notifService.Envelope, error) {
	if err := completeCurrent(st); err != nil {
		return nil, err
	}
	if err := updateCase(st.tx, st.kase, map[string]any{
		"case_status":             model.CaseStatusCompleted,
		"case_reason_for_closing": strings.TrimSpace(st.req.ReasonForClosing),
	}); err != nil {
		return nil, err
	}
	env := closedEnvelope(st.form, st.sess, st.kase)
	return &env, nil
}

func (e *Engine) handleContinue(st *entryState, res *EntryResult) (*notifService.Envelope, error) {
	if err := completeCurrent(st); err != nil {
		return nil, err
	}

	// follow-ups stay with the counsellor writing the entry; admins keep the current owner
	owner := st.sess.SessionCounsellorID
	if st.actor.IsCounsellor() && !st.actor.IsZero() {
		owner = st.actor.ID
	}
	counsellor, err := loadUser(st.tx, owner, "counsellor")
	if err != nil {
		return nil, err
	}

	next := nextSession(st, counsellor.ID, model.SessionStatusProgress)
	if err := appendSession(st.tx, st.kase, next); err != nil {
		return nil, apperr.FromDB(err, "session")
	}
	if err := updateCase(st.tx, st.kase, map[string]any{"case_status": model.CaseStatusProgress}); err != nil {
		return nil, err
	}
	res.NewSession = next

	env := requestEnvelope(EventSessionContinued, st.form, counsellor, next, st.kase.CaseCode, "Follow-up session scheduled")
	return &env, nil
}
