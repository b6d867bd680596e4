package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"counselling_backend/internals/features/counselling/sessions/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
)

// ReferralPlan says how a referral is carried out.
type ReferralPlan struct {
	Target *userModel.UserModel
	// Transfer schedules a new session owned by Target; otherwise Target is only asked for feedback.
	Transfer bool
}

// ResolveReferral looks up the referred user. A transfer needs a counsellor account;
// feedback may be requested from any user.
func ResolveReferral(tx *gorm.DB, target uuid.UUID, withSession bool) (*ReferralPlan, error) {
	u, err := loadUser(tx, target, "referred user")
	if err != nil {
		return nil, err
	}
	if withSession && u.UserType != userModel.UserTypeCounsellor {
		return nil, apperr.Validation("referred user %s is not a counsellor", u.Name)
	}
	return &ReferralPlan{Target: u, Transfer: withSession}, nil
}

// handleReferWithSession completes the current session and hands the case to another
// counsellor with a new pending session.
func (e *Engine) handleReferWithSession(st *entryState, res *EntryResult) (*notifService.Envelope, error) {
	plan, err := ResolveReferral(st.tx, *st.req.Refer, true)
	if err != nil {
		return nil, err
	}
	if err := completeCurrent(st); err != nil {
		return nil, err
	}
	if err := updateCase(st.tx, st.kase, map[string]any{"case_status": model.CaseStatusReferred}); err != nil {
		return nil, err
	}

	next := nextSession(st, plan.Target.ID, model.SessionStatusPending)
	if err := appendSession(st.tx, st.kase, next); err != nil {
		return nil, apperr.FromDB(err, "session")
	}
	res.NewSession = next

	env := requestEnvelope(EventCaseReferred, st.form, plan.Target, next, st.kase.CaseCode, "Case referred to you")
	return &env, nil
}

// handleReferFeedback appends the target to the case's referer list and asks them for
// feedback on the current session. Nothing is scheduled and no status changes.
func (e *Engine) handleReferFeedback(st *entryState, res *EntryResult) (*notifService.Envelope, error) {
	plan, err := ResolveReferral(st.tx, *st.req.Refer, false)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := st.tx.Model(&model.CaseReferralModel{}).
		Where("case_referral_case_id = ?", st.kase.CaseID).
		Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, "case referral")
	}
	sid := st.sess.SessionID
	ref := model.CaseReferralModel{
		CaseReferralCaseID:    st.kase.CaseID,
		CaseReferralUserID:    plan.Target.ID,
		CaseReferralSessionID: &sid,
		CaseReferralPosition:  int(count) + 1,
	}
	if err := st.tx.Create(&ref).Error; err != nil {
		return nil, apperr.FromDB(err, "case referral")
	}

	if fields := noteFields(st.req); len(fields) > 0 {
		if err := updateSession(st.tx, st.sess, fields); err != nil {
			return nil, err
		}
	}

	requestedBy := st.actor.Name
	if requestedBy == "" {
		if u, err := loadUser(st.tx, st.actor.ID, "user"); err == nil {
			requestedBy = u.Name
		} else {
			requestedBy = "The counsellor"
		}
	}
	env := feedbackEnvelope(st.form, plan.Target, requestedBy, st.sess, st.kase.CaseCode)
	return &env, nil
}
