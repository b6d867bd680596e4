package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	sessionModel "counselling_backend/internals/features/counselling/sessions/model"
	eventModel "counselling_backend/internals/features/events/model"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
)

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService { return &DashboardService{DB: db} }

type DashboardFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

type DashboardSession struct {
	ID             uuid.UUID `json:"_id"`
	SessionCode    string    `json:"session_id"`
	Date           time.Time `json:"session_date"`
	StartTime      string    `json:"start"`
	EndTime        string    `json:"end"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	UserName       string    `json:"user_name"`
	CounsellorName string    `json:"counsellor_name"`
}

type Dashboard struct {
	StudentCount    int64              `json:"student_count"`
	CounsellorCount int64              `json:"counsellor_count"`
	CaseCount       int64              `json:"case_count"`
	SessionCount    int64              `json:"session_count"`
	EventCount      int64              `json:"event_count"`
	SessionList     []DashboardSession `json:"session_list"`
	// sessions matching the filter, for paging
	Total int64 `json:"-"`
}

// Get runs the headline counts and the filtered session page concurrently.
func (s *DashboardService) Get(ctx context.Context, f DashboardFilter) (*Dashboard, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	out := &Dashboard{SessionList: []DashboardSession{}}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, model any, where ...any) {
		g.Go(func() error {
			q := s.DB.WithContext(gctx).Model(model)
			if len(where) > 0 {
				q = q.Where(where[0], where[1:]...)
			}
			return q.Count(dst).Error
		})
	}
	count(&out.StudentCount, &userModel.UserModel{}, "user_type = ?", userModel.UserTypeStudent)
	count(&out.CounsellorCount, &userModel.UserModel{}, "user_type = ?", userModel.UserTypeCounsellor)
	count(&out.CaseCount, &sessionModel.CaseModel{})
	count(&out.SessionCount, &sessionModel.SessionModel{})
	count(&out.EventCount, &eventModel.EventModel{})

	g.Go(func() error {
		base := func() *gorm.DB {
			q := s.DB.WithContext(gctx).Model(&sessionModel.SessionModel{}).
				Joins("JOIN forms ON forms.form_id = sessions.session_form_id").
				Joins("LEFT JOIN users ON users.id = sessions.session_counsellor_id")
			if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
				like := "%" + term + "%"
				q = q.Where("LOWER(forms.form_name) LIKE ? OR LOWER(users.name) LIKE ?", like, like)
			}
			if f.Status != "" {
				q = q.Where("sessions.session_status = ?", f.Status)
			}
			return q
		}
		if err := base().Count(&out.Total).Error; err != nil {
			return err
		}
		return base().Select(`sessions.session_id AS id, sessions.session_code AS session_code,
sessions.session_date AS date, sessions.session_start_time AS start_time, sessions.session_end_time AS end_time,
sessions.session_type AS type, sessions.session_status AS status,
forms.form_name AS user_name, users.name AS counsellor_name`).
			Order("sessions.session_created_at DESC").
			Limit(f.Limit).Offset(f.Offset).
			Scan(&out.SessionList).Error
	})

	if err := g.Wait(); err != nil {
		return nil, apperr.FromDB(err, "dashboard")
	}
	return out, nil
}
