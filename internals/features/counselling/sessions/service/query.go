package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	formModel "counselling_backend/internals/features/counselling/forms/model"
	"counselling_backend/internals/features/counselling/sessions/model"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	helperAuth "counselling_backend/internals/helpers/auth"
)

// CaseView is a case with its ordered sessions, referer list and remarks.
type CaseView struct {
	Case      model.CaseModel
	Form      *formModel.FormModel
	Sessions  []model.SessionModel
	Referrals []model.CaseReferralModel
	Remarks   []model.CaseRemarkModel
}

// SessionIDs lists the case's sessions in append order.
func (v *CaseView) SessionIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(v.Sessions))
	for _, s := range v.Sessions {
		out = append(out, s.SessionID)
	}
	return out
}

// SessionRow is a session with the names a list screen shows next to it.
type SessionRow struct {
	Session        model.SessionModel
	CaseCode       string
	StudentName    string
	CounsellorName string
}

type SessionFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

type CaseFilter struct {
	Status string
	Limit  int
	Offset int
}

// AddRemark appends {author, remark} to the case. Earlier remarks are never touched.
func (e *Engine) AddRemark(ctx context.Context, actor helperAuth.ActingUser, caseID uuid.UUID, remark string) (*CaseView, error) {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		return nil, apperr.Validation("remark is required")
	}

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kase, err := loadCase(tx, caseID)
		if err != nil {
			return err
		}
		if err := caseAccess(tx, actor, kase.CaseID); err != nil {
			return err
		}

		author := actor.Name
		if u, err := loadUser(tx, actor.ID, "user"); err == nil {
			author = u.Name
		}

		var count int64
		if err := tx.Model(&model.CaseRemarkModel{}).
			Where("case_remark_case_id = ?", kase.CaseID).
			Count(&count).Error; err != nil {
			return apperr.FromDB(err, "case remark")
		}
		row := model.CaseRemarkModel{
			CaseRemarkCaseID:     kase.CaseID,
			CaseRemarkAuthorID:   actor.ID,
			CaseRemarkAuthorName: author,
			CaseRemarkText:       remark,
			CaseRemarkPosition:   int(count) + 1,
		}
		return apperr.FromDB(tx.Create(&row).Error, "case remark")
	})
	if err != nil {
		return nil, err
	}

	e.finish(ctx, "remark", nil, nil)
	return e.GetCase(ctx, actor, caseID)
}

// GetCase loads a case view. Counsellors may only read cases they hold a session in
// or were referred to.
func (e *Engine) GetCase(ctx context.Context, actor helperAuth.ActingUser, caseID uuid.UUID) (*CaseView, error) {
	db := e.DB.WithContext(ctx)
	kase, err := loadCase(db, caseID)
	if err != nil {
		return nil, err
	}
	if err := caseAccess(db, actor, caseID); err != nil {
		return nil, err
	}

	v := &CaseView{Case: *kase}
	if err := db.Where("session_case_id = ?", caseID).
		Order("session_seq ASC").
		Find(&v.Sessions).Error; err != nil {
		return nil, apperr.FromDB(err, "session")
	}
	if err := db.Where("case_referral_case_id = ?", caseID).
		Order("case_referral_position ASC").
		Find(&v.Referrals).Error; err != nil {
		return nil, apperr.FromDB(err, "case referral")
	}
	if err := db.Where("case_remark_case_id = ?", caseID).
		Order("case_remark_position ASC").
		Find(&v.Remarks).Error; err != nil {
		return nil, apperr.FromDB(err, "case remark")
	}
	if f, err := loadForm(db, kase.CaseFormID); err == nil {
		v.Form = f
	}
	return v, nil
}

// scopeSessions narrows a sessions query to what the actor may see.
func scopeSessions(q *gorm.DB, actor helperAuth.ActingUser) *gorm.DB {
	switch {
	case actor.IsAdmin():
		return q
	case actor.IsCounsellor():
		return q.Where("sessions.session_counsellor_id = ?", actor.ID)
	default:
		return q.Where("sessions.session_form_id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Model(&formModel.FormModel{}).
				Select("form_id").Where("form_student_user_id = ?", actor.ID))
	}
}

// ListSessions returns sessions newest first.
func (e *Engine) ListSessions(ctx context.Context, actor helperAuth.ActingUser, f SessionFilter) ([]SessionRow, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	db := e.DB.WithContext(ctx)
	q := scopeSessions(db.Model(&model.SessionModel{}), actor)
	if f.Status != "" {
		q = q.Where("sessions.session_status = ?", f.Status)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Joins("JOIN forms ON forms.form_id = sessions.session_form_id").
			Where("LOWER(sessions.session_code) LIKE ? OR LOWER(forms.form_name) LIKE ? OR LOWER(sessions.session_type) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "session")
	}
	var sessions []model.SessionModel
	if err := q.Order("sessions.session_created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&sessions).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "session")
	}

	rows, err := e.decorate(ctx, sessions)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetSession returns one session the actor may see.
func (e *Engine) GetSession(ctx context.Context, actor helperAuth.ActingUser, id uuid.UUID) (*SessionRow, error) {
	var s model.SessionModel
	q := scopeSessions(e.DB.WithContext(ctx).Model(&model.SessionModel{}), actor)
	if err := q.Where("sessions.session_id = ?", id).Take(&s).Error; err != nil {
		return nil, apperr.FromDB(err, "session")
	}
	rows, err := e.decorate(ctx, []model.SessionModel{s})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// decorate attaches case codes and names with one query per table.
func (e *Engine) decorate(ctx context.Context, sessions []model.SessionModel) ([]SessionRow, error) {
	rows := make([]SessionRow, len(sessions))
	if len(sessions) == 0 {
		return rows, nil
	}
	caseIDs := make([]uuid.UUID, 0, len(sessions))
	formIDs := make([]uuid.UUID, 0, len(sessions))
	userIDs := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		caseIDs = append(caseIDs, s.SessionCaseID)
		formIDs = append(formIDs, s.SessionFormID)
		userIDs = append(userIDs, s.SessionCounsellorID)
	}

	db := e.DB.WithContext(ctx)
	var (
		cases []model.CaseModel
		forms []formModel.FormModel
		users []userModel.UserModel
	)
	if err := db.Unscoped().Where("case_id IN ?", caseIDs).Find(&cases).Error; err != nil {
		return nil, apperr.FromDB(err, "case")
	}
	if err := db.Where("form_id IN ?", formIDs).Find(&forms).Error; err != nil {
		return nil, apperr.FromDB(err, "form")
	}
	if err := db.Unscoped().Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, apperr.FromDB(err, "user")
	}

	caseCode := make(map[uuid.UUID]string, len(cases))
	for _, c := range cases {
		caseCode[c.CaseID] = c.CaseCode
	}
	formName := make(map[uuid.UUID]string, len(forms))
	for _, f := range forms {
		formName[f.FormID] = f.FormName
	}
	userName := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		userName[u.ID] = u.Name
	}

	for i, s := range sessions {
		rows[i] = SessionRow{
			Session:        s,
			CaseCode:       caseCode[s.SessionCaseID],
			StudentName:    formName[s.SessionFormID],
			CounsellorName: userName[s.SessionCounsellorID],
		}
	}
	return rows, nil
}

// ListCases returns case views newest first. Counsellors see cases they hold a session in.
func (e *Engine) ListCases(ctx context.Context, actor helperAuth.ActingUser, f CaseFilter) ([]CaseView, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	db := e.DB.WithContext(ctx)
	q := db.Model(&model.CaseModel{})
	if f.Status != "" {
		q = q.Where("case_status = ?", f.Status)
	}
	if actor.IsCounsellor() {
		q = q.Where("case_id IN (?)",
			db.Model(&model.SessionModel{}).Select("session_case_id").Where("session_counsellor_id = ?", actor.ID))
	} else if !actor.IsAdmin() {
		q = q.Where("case_form_id IN (?)",
			db.Model(&formModel.FormModel{}).Select("form_id").Where("form_student_user_id = ?", actor.ID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "case")
	}
	var cases []model.CaseModel
	if err := q.Order("case_created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&cases).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "case")
	}

	out := make([]CaseView, 0, len(cases))
	for _, c := range cases {
		v := CaseView{Case: c}
		if err := db.Where("session_case_id = ?", c.CaseID).Order("session_seq ASC").Find(&v.Sessions).Error; err != nil {
			return nil, 0, apperr.FromDB(err, "session")
		}
		out = append(out, v)
	}
	return out, total, nil
}
