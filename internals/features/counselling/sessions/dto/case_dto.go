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

// AddEntryRequest carries the flags and fields of a case entry. The flags are
// resolved in order: isEditable, close, refer + with_session, refer, continue.
type AddEntryRequest struct {
	SessionID   string  `json:"session_id" validate:"required,uuid"`
	IsEditable  bool    `json:"isEditable"`
	Close       bool    `json:"close"`
	Refer       *string `json:"refer" validate:"omitempty,uuid"`
	WithSession bool    `json:"with_session"`

	ReasonForClosing string  `json:"reason_for_closing"`
	ConcernRaised    *string `json:"concern_raised" validate:"omitempty,datetime=2006-01-02"`

	CaseDetails  *string  `json:"case_details"`
	Interactions *string  `json:"interactions"`
	Report       []string `json:"report"`

	SessionDate *string      `json:"session_date" validate:"omitempty,datetime=2006-01-02"`
	SessionTime *SessionTime `json:"session_time" validate:"omitempty"`
	Description *string      `json:"description"`
	SessionMode string       `json:"session_type"`
}

// Normalize drops empty optional strings so they read as absent.
func (r *AddEntryRequest) Normalize() {
	if r.Refer != nil && strings.TrimSpace(*r.Refer) == "" {
		r.Refer = nil
	}
	if r.ConcernRaised != nil && strings.TrimSpace(*r.ConcernRaised) == "" {
		r.ConcernRaised = nil
	}
	if r.SessionDate != nil && strings.TrimSpace(*r.SessionDate) == "" {
		r.SessionDate = nil
	}
}

func (r AddEntryRequest) ToInput() service.EntryRequest {
	in := service.EntryRequest{
		SessionID:        uuid.MustParse(r.SessionID),
		IsEditable:       r.IsEditable,
		Close:            r.Close,
		WithSession:      r.WithSession,
		ReasonForClosing: r.ReasonForClosing,
		CaseDetails:      r.CaseDetails,
		Interactions:     r.Interactions,
		Report:           r.Report,
		Description:      r.Description,
		Mode:             strings.TrimSpace(r.SessionMode),
	}
	if r.Refer != nil {
		id := uuid.MustParse(*r.Refer)
		in.Refer = &id
	}
	if r.ConcernRaised != nil {
		if d, err := dbtime.ParseDate(*r.ConcernRaised); err == nil {
			in.ConcernRaised = &d
		}
	}
	if r.SessionDate != nil {
		if d, err := dbtime.ParseDate(*r.SessionDate); err == nil {
			in.Date = &d
		}
	}
	if r.SessionTime != nil {
		in.Start, in.End = r.SessionTime.Start, r.SessionTime.End
	}
	return in
}

type AddRemarkRequest struct {
	Remark string `json:"remark" validate:"required"`
}

// ================== RESPONSE ==================

type RemarkResponse struct {
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Remark     string    `json:"remark"`
	CreatedAt  time.Time `json:"created_at"`
}

type CaseResponse struct {
	ID               uuid.UUID         `json:"id"`
	CaseID           string            `json:"case_id"`
	FormID           uuid.UUID         `json:"form_id"`
	StudentName      string            `json:"student_name,omitempty"`
	Status           string            `json:"status"`
	ConcernRaised    *string           `json:"concern_raised"`
	ReasonForClosing string            `json:"reason_for_closing"`
	SessionIDs       []uuid.UUID       `json:"session_ids"`
	Sessions         []SessionResponse `json:"sessions,omitempty"`
	Referer          []uuid.UUID       `json:"referer"`
	RefererRemark    []RemarkResponse  `json:"referer_remark"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type EntryResponse struct {
	Kind       service.EntryKind `json:"kind"`
	Case       CaseResponse      `json:"case"`
	Session    SessionResponse   `json:"session"`
	NewSession *SessionResponse  `json:"new_session,omitempty"`
}

// ================ CONVERSION =================

func fromCaseModel(m *model.CaseModel) CaseResponse {
	out := CaseResponse{
		ID:               m.CaseID,
		CaseID:           m.CaseCode,
		FormID:           m.CaseFormID,
		Status:           m.CaseStatus,
		ReasonForClosing: m.CaseReasonForClosing,
		SessionIDs:       []uuid.UUID{},
		Referer:          []uuid.UUID{},
		RefererRemark:    []RemarkResponse{},
		CreatedAt:        m.CaseCreatedAt,
		UpdatedAt:        m.CaseUpdatedAt,
	}
	if m.CaseConcernRaised != nil {
		s := m.CaseConcernRaised.Format(dbtime.DateLayout)
		out.ConcernRaised = &s
	}
	return out
}

func FromCaseView(v *service.CaseView) CaseResponse {
	out := fromCaseModel(&v.Case)
	if v.Form != nil {
		out.StudentName = v.Form.FormName
	}
	out.SessionIDs = v.SessionIDs()
	for i := range v.Sessions {
		out.Sessions = append(out.Sessions, FromSessionModel(&v.Sessions[i]))
	}
	for _, r := range v.Referrals {
		out.Referer = append(out.Referer, r.CaseReferralUserID)
	}
	for _, r := range v.Remarks {
		out.RefererRemark = append(out.RefererRemark, RemarkResponse{
			AuthorID:   r.CaseRemarkAuthorID,
			AuthorName: r.CaseRemarkAuthorName,
			Remark:     r.CaseRemarkText,
			CreatedAt:  r.CaseRemarkCreatedAt,
		})
	}
	return out
}

func FromCaseViews(vs []service.CaseView) []CaseResponse {
	out := make([]CaseResponse, 0, len(vs))
	for i := range vs {
		out = append(out, FromCaseView(&vs[i]))
	}
	return out
}

func FromEntryResult(r *service.EntryResult) EntryResponse {
	out := EntryResponse{
		Kind:    r.Kind,
		Case:    fromCaseModel(r.Case),
		Session: FromSessionModel(r.Session),
	}
	if r.NewSession != nil {
		ns := FromSessionModel(r.NewSession)
		out.NewSession = &ns
	}
	return out
}
