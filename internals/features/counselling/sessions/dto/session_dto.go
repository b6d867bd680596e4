package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"counselling_backend/internals/features/counselling/sessions/model"
	"counselling_backend/internals/features/counselling/sessions/service"
	"counselling_backend/internals/helpers/dbtime"
)

// ================== REQUEST ==================

type SessionTime struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

type CreateSessionRequest struct {
	FormID      string      `json:"form_id" validate:"required,uuid"`
	SessionDate string      `json:"session_date" validate:"required,datetime=2006-01-02"`
	SessionTime SessionTime `json:"session_time" validate:"required"`
	Type        string      `json:"type" validate:"required,max=120"`
	SessionMode string      `json:"session_type" validate:"omitempty,max=64"`
	Counsellor  string      `json:"counsellor" validate:"required,uuid"`
	Description string      `json:"description"`
	Report      []string    `json:"report"`
}

func (r CreateSessionRequest) ToInput() service.CreateSessionInput {
	date, _ := dbtime.ParseDate(r.SessionDate)
	return service.CreateSessionInput{
		FormID:       uuid.MustParse(r.FormID),
		Date:         date,
		Start:        r.SessionTime.Start,
		End:          r.SessionTime.End,
		Type:         strings.TrimSpace(r.Type),
		Mode:         strings.TrimSpace(r.SessionMode),
		CounsellorID: uuid.MustParse(r.Counsellor),
		Description:  r.Description,
		Report:       r.Report,
	}
}

type RescheduleSessionRequest struct {
	SessionDate string      `json:"session_date" validate:"required,datetime=2006-01-02"`
	SessionTime SessionTime `json:"session_time" validate:"required"`
	Remark      string      `json:"remark"`
}

func (r RescheduleSessionRequest) ToInput() service.RescheduleInput {
	date, _ := dbtime.ParseDate(r.SessionDate)
	return service.RescheduleInput{
		Date:   date,
		Start:  r.SessionTime.Start,
		End:    r.SessionTime.End,
		Remark: strings.TrimSpace(r.Remark),
	}
}

type CancelSessionRequest struct {
	Remark string `json:"remark"`
}

// ================== RESPONSE ==================

type SessionResponse struct {
	ID             uuid.UUID   `json:"id"`
	SessionID      string      `json:"session_id"`
	CaseID         uuid.UUID   `json:"case_id"`
	CaseCode       string      `json:"case_code,omitempty"`
	FormID         uuid.UUID   `json:"form_id"`
	StudentName    string      `json:"student_name,omitempty"`
	Counsellor     uuid.UUID   `json:"counsellor"`
	CounsellorName string      `json:"counsellor_name,omitempty"`
	SessionDate    string      `json:"session_date"`
	SessionTime    SessionTime `json:"session_time"`
	Type           string      `json:"type"`
	SessionMode    string      `json:"session_type,omitempty"`
	Description    string      `json:"description"`
	CaseDetails    string      `json:"case_details"`
	Interactions   string      `json:"interactions"`
	Status         string      `json:"status"`
	Report         []string    `json:"report"`

	RescheduleRemark  string `json:"reschedule_remark,omitempty"`
	CancelRemark      string `json:"cancel_remark,omitempty"`
	CRescheduleRemark string `json:"c_reschedule_remark,omitempty"`
	CCancelRemark     string `json:"c_cancel_remark,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ================ CONVERSION =================

func FromSessionModel(m *model.SessionModel) SessionResponse {
	return SessionResponse{
		ID:                m.SessionID,
		SessionID:         m.SessionCode,
		CaseID:            m.SessionCaseID,
		FormID:            m.SessionFormID,
		Counsellor:        m.SessionCounsellorID,
		SessionDate:       m.SessionDate.Format(dbtime.DateLayout),
		SessionTime:       SessionTime{Start: m.SessionStartTime, End: m.SessionEndTime},
		Type:              m.SessionType,
		SessionMode:       m.SessionMode,
		Description:       m.SessionDescription,
		CaseDetails:       m.SessionCaseDetails,
		Interactions:      m.SessionInteractions,
		Status:            m.SessionStatus,
		Report:            m.Reports(),
		RescheduleRemark:  m.SessionRescheduleRemark,
		CancelRemark:      m.SessionCancelRemark,
		CRescheduleRemark: m.SessionCRescheduleRemark,
		CCancelRemark:     m.SessionCCancelRemark,
		CreatedAt:         m.SessionCreatedAt,
		UpdatedAt:         m.SessionUpdatedAt,
	}
}

func FromSessionRow(r *service.SessionRow) SessionResponse {
	out := FromSessionModel(&r.Session)
	out.CaseCode = r.CaseCode
	out.StudentName = r.StudentName
	out.CounsellorName = r.CounsellorName
	return out
}

func FromSessionRows(rows []service.SessionRow) []SessionResponse {
	out := make([]SessionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromSessionRow(&rows[i]))
	}
	return out
}
