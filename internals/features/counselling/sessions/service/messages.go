package service

import (
	"fmt"

	"github.com/google/uuid"

	formModel "counselling_backend/internals/features/counselling/forms/model"
	"counselling_backend/internals/features/counselling/sessions/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/dbtime"
	"counselling_backend/internals/helpers/mailer"
)

const (
	EventSessionCreated    = "session.created"
	EventSessionAccepted   = "session.accepted"
	EventSessionReschedule = "session.rescheduled"
	EventSessionCancelled  = "session.cancelled"
	EventCaseClosed        = "case.closed"
	EventCaseReferred      = "case.referred"
	EventFeedbackRequested = "case.feedback_requested"
	EventSessionContinued  = "session.continued"
)

func clock(s *model.SessionModel) string {
	return s.SessionStartTime + "-" + s.SessionEndTime
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

// notice addresses an in-app notification about s.
func notice(user uuid.UUID, s *model.SessionModel, details string) notifService.Notice {
	return notifService.Notice{
		UserID:    user,
		CaseID:    ptr(s.SessionCaseID),
		SessionID: ptr(s.SessionID),
		Details:   details,
	}
}

// requesterNotices adds the student's own account when the form is linked to one.
func requesterNotices(f *formModel.FormModel, s *model.SessionModel, details string) []notifService.Notice {
	if f.FormStudentUserID == nil || *f.FormStudentUserID == uuid.Nil {
		return nil
	}
	return []notifService.Notice{notice(*f.FormStudentUserID, s, details)}
}

// requestEnvelope is sent whenever a session is requested for a counsellor, on create
// and on every branch that schedules a new session.
func requestEnvelope(event string, f *formModel.FormModel, counsellor *userModel.UserModel, s *model.SessionModel, caseCode, details string) notifService.Envelope {
	date := dbtime.FormatDisplay(s.SessionDate)

	var text string
	if f.IsSelfReferred() {
		text = fmt.Sprintf("Dear %s,\n\nYour appointment request for %s on %s at %s has been sent for approval. We will notify you once approved.",
			f.FormName, counsellor.Name, date, clock(s))
	} else {
		text = fmt.Sprintf("Dear %s,\n\nYour appointment request for %s has been sent to the Counselor for approval.",
			f.FormReferee, f.FormName)
	}

	return notifService.Envelope{
		Event:   event,
		Notices: []notifService.Notice{notice(counsellor.ID, s, details)},
		Mails: []mailer.Message{
			{
				To:      []string{f.FormEmail},
				Subject: fmt.Sprintf("Your session requested with Session ID: %s and Case ID: %s for %s", s.SessionCode, caseCode, counsellor.Name),
				Text:    text,
			},
			{
				To:      []string{counsellor.Email},
				Subject: fmt.Sprintf("New session request: %s and Case ID: %s", s.SessionCode, caseCode),
				Text: fmt.Sprintf("Dear %s,\n\nYou have received an appointment request from %s for %s at %s. Please review the request for approval.",
					counsellor.Name, f.FormName, date, clock(s)),
			},
		},
	}
}

func acceptedEnvelope(f *formModel.FormModel, counsellor *userModel.UserModel, s *model.SessionModel, caseCode string) notifService.Envelope {
	date := dbtime.FormatDisplay(s.SessionDate)
	notices := append([]notifService.Notice{notice(counsellor.ID, s, "Session accepted")},
		requesterNotices(f, s, "Your session was accepted")...)
	return notifService.Envelope{
		Event:   EventSessionAccepted,
		Notices: notices,
		Mails: []mailer.Message{
			{
				To:      []string{f.FormEmail},
				Subject: fmt.Sprintf("Session accepted: Session ID: %s and Case ID: %s", s.SessionCode, caseCode),
				Text: fmt.Sprintf("Dear %s,\n\nYour session with %s on %s at %s has been accepted.",
					f.FormName, counsellor.Name, date, clock(s)),
			},
			{
				To:      []string{counsellor.Email},
				Subject: fmt.Sprintf("Session accepted: Session ID: %s and Case ID: %s", s.SessionCode, caseCode),
				Text: fmt.Sprintf("Dear %s,\n\nYou accepted the session with %s on %s at %s.",
					counsellor.Name, f.FormName, date, clock(s)),
			},
		},
	}
}

func rescheduledEnvelope(f *formModel.FormModel, counsellor *userModel.UserModel, s *model.SessionModel, caseCode, oldDate, oldClock, remark string) notifService.Envelope {
	newDate := dbtime.FormatDisplay(s.SessionDate)
	body := fmt.Sprintf("Session %s of case %s has been rescheduled from %s at %s to %s at %s.",
		s.SessionCode, caseCode, oldDate, oldClock, newDate, clock(s))
	if remark != "" {
		body += "\nRemark: " + remark
	}
	subject := fmt.Sprintf("Session rescheduled: Session ID: %s and Case ID: %s", s.SessionCode, caseCode)

	notices := append([]notifService.Notice{notice(counsellor.ID, s, "Session rescheduled")},
		requesterNotices(f, s, "Your session was rescheduled")...)
	return notifService.Envelope{
		Event:   EventSessionReschedule,
		Notices: notices,
		Mails: []mailer.Message{
			{To: []string{f.FormEmail}, Subject: subject, Text: fmt.Sprintf("Dear %s,\n\n%s", f.FormName, body)},
			{To: []string{counsellor.Email}, Subject: subject, Text: fmt.Sprintf("Dear %s,\n\n%s", counsellor.Name, body)},
		},
	}
}

func cancelledEnvelope(f *formModel.FormModel, s *model.SessionModel, caseCode, remark string) notifService.Envelope {
	text := fmt.Sprintf("Dear %s,\n\nYour session %s on %s at %s has been cancelled.",
		f.FormName, s.SessionCode, dbtime.FormatDisplay(s.SessionDate), clock(s))
	if remark != "" {
		text += "\nReason: " + remark
	}
	notices := append([]notifService.Notice{notice(s.SessionCounsellorID, s, "Session cancelled")},
		requesterNotices(f, s, "Your session was cancelled")...)
	return notifService.Envelope{
		Event:   EventSessionCancelled,
		Notices: notices,
		Mails: []mailer.Message{{
			To:      []string{f.FormEmail},
			Subject: fmt.Sprintf("Session cancelled: Session ID: %s and Case ID: %s", s.SessionCode, caseCode),
			Text:    text,
		}},
	}
}

func closedEnvelope(f *formModel.FormModel, s *model.SessionModel, kase *model.CaseModel) notifService.Envelope {
	return notifService.Envelope{
		Event:   EventCaseClosed,
		Notices: requesterNotices(f, s, "Your case was closed"),
		Mails: []mailer.Message{{
			To:      []string{f.FormEmail},
			Subject: fmt.Sprintf("Case closed: Case ID: %s", kase.CaseCode),
			Text: fmt.Sprintf("Dear %s,\n\nCase %s has been closed.\nReason: %s",
				f.FormName, kase.CaseCode, kase.CaseReasonForClosing),
		}},
	}
}

func feedbackEnvelope(f *formModel.FormModel, referred *userModel.UserModel, requestedBy string, s *model.SessionModel, caseCode string) notifService.Envelope {
	return notifService.Envelope{
		Event:   EventFeedbackRequested,
		Notices: []notifService.Notice{notice(referred.ID, s, "Feedback requested")},
		Mails: []mailer.Message{{
			To:      []string{referred.Email},
			Subject: fmt.Sprintf("Feedback requested: Session ID: %s and Case ID: %s", s.SessionCode, caseCode),
			Text: fmt.Sprintf("Dear %s,\n\n%s has requested your feedback on session %s (%s at %s) of case %s for %s.",
				referred.Name, requestedBy, s.SessionCode, dbtime.FormatDisplay(s.SessionDate), clock(s), caseCode, f.FormName),
		}},
	}
}
