package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sessionModel "counselling_backend/internals/features/counselling/sessions/model"
	"counselling_backend/internals/helpers/apperr"
	"counselling_backend/internals/helpers/dbtime"
)

const (
	ReportSession        = "session"
	ReportCase           = "case"
	ReportSessionCount   = "session-count"
	ReportCounselingType = "counseling-type"
	ReportConsolidated   = "consolidated"
)

// ReportFilter narrows a report. A nil CounsellorID or empty GRNumber means all
// (the "*" wildcard is resolved by the caller).
type ReportFilter struct {
	Type           string
	Start          time.Time
	End            time.Time
	CounsellorID   *uuid.UUID
	GRNumber       string
	CounselingType string
}

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{DB: db} }

var sessionColumns = []Column{
	{"Case ID", "case_id"},
	{"Session ID", "session_id"},
	{"Student Name", "student_name"},
	{"Counsellor Name", "counsellor_name"},
	{"Counseling Type", "counseling_type"},
	{"Session Date", "session_date"},
	{"Session Time", "session_time"},
	{"Description", "description"},
	{"Status", "status"},
}

var caseColumns = []Column{
	{"Case ID", "case_id"},
	{"Student Name", "student_name"},
	{"Counsellor Name", "counsellor_name"},
	{"Counseling Type", "counseling_type"},
	{"Status", "status"},
	{"Session ID", "session_id"},
	{"Session Date", "session_date"},
	{"Session Time", "session_time"},
	{"Description", "description"},
	{"Case Details", "case_details"},
}

var sessionCountColumns = []Column{
	{"Counsellor Name", "counsellor_name"},
	{"Referee", "referee"},
	{"Session Count", "session_count"},
}

var consolidatedColumns = []Column{
	{"Counsellor Name", "counsellor_name"},
	{"Cases", "case_count"},
	{"Sessions", "session_count"},
	{"Pending", "pending"},
	{"In Progress", "progress"},
	{"Completed", "completed"},
	{"Rescheduled", "rescheduled"},
	{"Cancelled", "cancelled"},
}

// one session joined with its case, form and counsellor
type sessionRow struct {
	CaseID         uuid.UUID
	CaseCode       string
	CaseStatus     string
	SessionCode    string
	SessionDate    *time.Time
	StartTime      string
	EndTime        string
	SessionType    string
	Description    string
	CaseDetails    string
	Status         string
	CounsellorID   *uuid.UUID
	StudentName    string
	Referee        string
	CounsellorName string
}

func (r sessionRow) timeRange() string {
	if r.StartTime == "" && r.EndTime == "" {
		return ""
	}
	or := func(s string) string {
		if s == "" {
			return notAvailable
		}
		return s
	}
	return or(r.StartTime) + " - " + or(r.EndTime)
}

func (r sessionRow) date() string {
	if r.SessionDate == nil || r.SessionDate.IsZero() {
		return ""
	}
	return dbtime.FormatDisplay(*r.SessionDate)
}

const sessionRowSelect = `cases.case_id AS case_id, cases.case_code AS case_code, cases.case_status AS case_status,
sessions.session_code AS session_code, sessions.session_date AS session_date,
sessions.session_start_time AS start_time, sessions.session_end_time AS end_time,
sessions.session_type AS session_type, sessions.session_description AS description,
sessions.session_case_details AS case_details, sessions.session_status AS status,
sessions.session_counsellor_id AS counsellor_id,
forms.form_name AS student_name, forms.form_referee AS referee, users.name AS counsellor_name`

func (f ReportFilter) validate() error {
	if f.Start.IsZero() || f.End.IsZero() {
		return apperr.Validation("startDate and endDate are required")
	}
	if f.End.Before(f.Start) {
		return apperr.Validation("endDate must not be before startDate")
	}
	return nil
}

// Build dispatches on f.Type.
func (s *ReportService) Build(ctx context.Context, f ReportFilter) (*Table, error) {
	switch f.Type {
	case ReportSession, ReportCase, ReportSessionCount, ReportCounselingType, ReportConsolidated:
	default:
		return nil, apperr.Validation("Invalid report type")
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	switch f.Type {
	case ReportSession:
		return s.sessionReport(ctx, f)
	case ReportCase:
		return s.caseReport(ctx, f)
	case ReportSessionCount:
		return s.sessionCountReport(ctx, f)
	case ReportCounselingType:
		if strings.TrimSpace(f.CounselingType) == "" {
			return nil, apperr.Validation("Counselling type is required")
		}
		return s.sessionReport(ctx, f)
	default:
		return s.consolidatedReport(ctx, f)
	}
}

// sessions in the date window, joined and filtered
func (s *ReportService) sessionRows(ctx context.Context, f ReportFilter) ([]sessionRow, error) {
	q := s.DB.WithContext(ctx).Model(&sessionModel.SessionModel{}).
		Select(sessionRowSelect).
		Joins("JOIN cases ON cases.case_id = sessions.session_case_id AND cases.case_deleted_at IS NULL").
		Joins("JOIN forms ON forms.form_id = sessions.session_form_id").
		Joins("LEFT JOIN users ON users.id = sessions.session_counsellor_id").
		Where("sessions.session_date >= ? AND sessions.session_date <= ?", dbtime.DateOnly(f.Start), dbtime.DateOnly(f.End))
	if f.CounsellorID != nil {
		q = q.Where("sessions.session_counsellor_id = ?", *f.CounsellorID)
	}
	if f.GRNumber != "" {
		q = q.Where("forms.form_gr_number = ?", f.GRNumber)
	}
	if f.Type == ReportCounselingType {
		q = q.Where("sessions.session_type = ?", f.CounselingType)
	}
	var rows []sessionRow
	if err := q.Order("sessions.session_date ASC").Order("sessions.session_start_time ASC").Scan(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "report")
	}
	return rows, nil
}

func (s *ReportService) sessionReport(ctx context.Context, f ReportFilter) (*Table, error) {
	rows, err := s.sessionRows(ctx, f)
	if err != nil {
		return nil, err
	}
	t := newTable(sessionColumns)
	for _, r := range rows {
		t.add(map[string]any{
			"case_id":         r.CaseCode,
			"session_id":      r.SessionCode,
			"student_name":    r.StudentName,
			"counsellor_name": r.CounsellorName,
			"counseling_type": r.SessionType,
			"session_date":    r.date(),
			"session_time":    r.timeRange(),
			"description":     r.Description,
			"status":          r.Status,
		})
	}
	return t, nil
}

// caseReport lists cases opened in the window, one line per session; cases
// without sessions still get a single line.
func (s *ReportService) caseReport(ctx context.Context, f ReportFilter) (*Table, error) {
	sessionJoin := "LEFT JOIN sessions ON sessions.session_case_id = cases.case_id AND sessions.session_deleted_at IS NULL"
	var args []any
	if f.CounsellorID != nil {
		sessionJoin += " AND sessions.session_counsellor_id = ?"
		args = append(args, *f.CounsellorID)
	}
	q := s.DB.WithContext(ctx).Model(&sessionModel.CaseModel{}).
		Select(sessionRowSelect).
		Joins("JOIN forms ON forms.form_id = cases.case_form_id").
		Joins(sessionJoin, args...).
		Joins("LEFT JOIN users ON users.id = sessions.session_counsellor_id").
		Where("cases.case_created_at >= ? AND cases.case_created_at < ?", dbtime.DateOnly(f.Start), dbtime.DateOnly(f.End).AddDate(0, 0, 1))
	if f.GRNumber != "" {
		q = q.Where("forms.form_gr_number = ?", f.GRNumber)
	}
	var rows []sessionRow
	if err := q.Order("cases.case_created_at ASC").Order("sessions.session_seq ASC").Scan(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "report")
	}

	t := newTable(caseColumns)
	for _, r := range rows {
		if f.CounsellorID != nil && r.SessionCode == "" {
			continue
		}
		t.add(map[string]any{
			"case_id":         r.CaseCode,
			"student_name":    r.StudentName,
			"counsellor_name": r.CounsellorName,
			"counseling_type": r.SessionType,
			"status":          r.CaseStatus,
			"session_id":      r.SessionCode,
			"session_date":    r.date(),
			"session_time":    r.timeRange(),
			"description":     r.Description,
			"case_details":    r.CaseDetails,
		})
	}
	return t, nil
}

func (s *ReportService) sessionCountReport(ctx context.Context, f ReportFilter) (*Table, error) {
	type countRow struct {
		CounsellorName string
		Referee        string
		SessionCount   int64
	}
	q := s.DB.WithContext(ctx).Model(&sessionModel.SessionModel{}).
		Select("users.name AS counsellor_name, forms.form_referee AS referee, COUNT(*) AS session_count").
		Joins("JOIN forms ON forms.form_id = sessions.session_form_id").
		Joins("JOIN users ON users.id = sessions.session_counsellor_id").
		Where("sessions.session_date >= ? AND sessions.session_date <= ?", dbtime.DateOnly(f.Start), dbtime.DateOnly(f.End))
	if f.CounsellorID != nil {
		q = q.Where("sessions.session_counsellor_id = ?", *f.CounsellorID)
	}
	if f.GRNumber != "" {
		q = q.Where("forms.form_gr_number = ?", f.GRNumber)
	}
	var rows []countRow
	if err := q.Group("users.id").Group("users.name").Group("forms.form_referee").
		Order("users.name ASC").Order("forms.form_referee ASC").Scan(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "report")
	}

	t := newTable(sessionCountColumns)
	for _, r := range rows {
		t.add(map[string]any{
			"counsellor_name": r.CounsellorName,
			"referee":         r.Referee,
			"session_count":   r.SessionCount,
		})
	}
	return t, nil
}

// consolidatedReport summarises each counsellor's workload in the window.
func (s *ReportService) consolidatedReport(ctx context.Context, f ReportFilter) (*Table, error) {
	rows, err := s.sessionRows(ctx, f)
	if err != nil {
		return nil, err
	}
	type tally struct {
		name     string
		cases    map[uuid.UUID]struct{}
		sessions int
		byStatus map[string]int
	}
	per := map[string]*tally{}
	for _, r := range rows {
		key := r.CounsellorName
		if r.CounsellorID != nil {
			key = r.CounsellorID.String()
		}
		tl, ok := per[key]
		if !ok {
			tl = &tally{name: r.CounsellorName, cases: map[uuid.UUID]struct{}{}, byStatus: map[string]int{}}
			per[key] = tl
		}
		tl.cases[r.CaseID] = struct{}{}
		tl.sessions++
		tl.byStatus[r.Status]++
	}
	list := make([]*tally, 0, len(per))
	for _, tl := range per {
		list = append(list, tl)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].name < list[j].name })

	t := newTable(consolidatedColumns)
	for _, tl := range list {
		t.add(map[string]any{
			"counsellor_name": tl.name,
			"case_count":      len(tl.cases),
			"session_count":   tl.sessions,
			"pending":         tl.byStatus[sessionModel.SessionStatusPending],
			"progress":        tl.byStatus[sessionModel.SessionStatusProgress],
			"completed":       tl.byStatus[sessionModel.SessionStatusCompleted],
			"rescheduled":     tl.byStatus[sessionModel.SessionStatusRescheduled],
			"cancelled":       tl.byStatus[sessionModel.SessionStatusCancelled],
		})
	}
	return t, nil
}
