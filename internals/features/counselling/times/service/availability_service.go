package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"counselling_backend/internals/constants"
	sessionModel "counselling_backend/internals/features/counselling/sessions/model"
	"counselling_backend/internals/features/counselling/times/model"
	"counselling_backend/internals/helpers/apperr"
	"counselling_backend/internals/helpers/applog"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/helpers/dbtime"
)

// AvailabilityService keeps the weekly templates and answers "what is still free on this date".
type AvailabilityService struct {
	DB *gorm.DB
	// sessions this many days either side of the requested date block a slot
	SlackDays int
	log       *zerolog.Logger
}

func NewAvailabilityService(db *gorm.DB, slackDays int) *AvailabilityService {
	if slackDays < 0 {
		slackDays = 0
	}
	return &AvailabilityService{DB: db, SlackDays: slackDays, log: applog.WithComponent("availability")}
}

// SetResult reports what SetAvailability did to the template.
type SetResult struct {
	Time    *model.TimeModel
	Created bool
	Deleted bool
}

func normalizeDay(day string) (string, error) {
	day = strings.TrimSpace(day)
	if len(day) > 1 {
		day = strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
	}
	if !constants.IsWeekday(day) {
		return "", apperr.Validation("day must be one of %s", strings.Join(constants.Weekdays, ", "))
	}
	return day, nil
}

func validateIntervals(in []model.Interval) error {
	for _, iv := range in {
		if !dbtime.ValidClock(iv.Start) || !dbtime.ValidClock(iv.End) {
			return apperr.Validation("interval %s-%s must be HH:MM", iv.Start, iv.End)
		}
	}
	return nil
}

// SetAvailability replaces the counsellor's interval list for day. An empty list
// deletes the template. Overlapping intervals are stored as given.
func (s *AvailabilityService) SetAvailability(ctx context.Context, counsellorID uuid.UUID, day string, intervals []model.Interval) (*SetResult, error) {
	day, err := normalizeDay(day)
	if err != nil {
		return nil, err
	}
	if err := validateIntervals(intervals); err != nil {
		return nil, err
	}

	res := &SetResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.TimeModel
		err := tx.Where("time_user_id = ? AND time_day = ?", counsellorID, day).Take(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.FromDB(err, "time")
		}

		if len(intervals) == 0 {
			if found {
				if err := tx.Delete(&model.TimeModel{}, "time_id = ?", existing.TimeID).Error; err != nil {
					return apperr.FromDB(err, "time")
				}
			}
			res.Deleted = true
			return nil
		}

		row := model.TimeModel{TimeUserID: counsellorID, TimeDay: day}
		row.SetIntervals(intervals)
		// a concurrent create for the same (user, day) collapses into an update
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "time_user_id"}, {Name: "time_day"}},
			DoUpdates: clause.AssignmentColumns([]string{"time_times", "time_updated_at"}),
		}).Create(&row).Error; err != nil {
			return apperr.FromDB(err, "time")
		}

		var saved model.TimeModel
		if err := tx.Where("time_user_id = ? AND time_day = ?", counsellorID, day).Take(&saved).Error; err != nil {
			return apperr.FromDB(err, "time")
		}
		res.Time = &saved
		res.Created = !found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RemoveIntervals withdraws the listed intervals from a template, logging each removed
// one with reason. Targets that match nothing are ignored. An empty target list removes
// the whole template. Returns nil when the template no longer exists.
func (s *AvailabilityService) RemoveIntervals(ctx context.Context, actor helperAuth.ActingUser, templateID uuid.UUID, targets []model.Interval, reason string) (*model.TimeModel, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("reason is required")
	}

	wanted := make(map[model.Interval]bool, len(targets))
	for _, t := range targets {
		t.Start, t.End = strings.TrimSpace(t.Start), strings.TrimSpace(t.End)
		if t.Start == "" || t.End == "" {
			continue
		}
		wanted[t] = true
	}

	var out *model.TimeModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tpl model.TimeModel
		if err := tx.Where("time_id = ?", templateID).Take(&tpl).Error; err != nil {
			return apperr.FromDB(err, "time")
		}
		if actor.IsCounsellor() && tpl.TimeUserID != actor.ID {
			return apperr.NotFound("time not found")
		}

		current := tpl.Intervals()
		kept := make([]model.Interval, 0, len(current))
		var removed []model.Interval
		for _, iv := range current {
			if len(wanted) == 0 || wanted[iv] {
				removed = append(removed, iv)
				continue
			}
			kept = append(kept, iv)
		}

		for _, iv := range removed {
			entry := model.TimeRemovalLogModel{
				TimeRemovalLogUserID: tpl.TimeUserID,
				TimeRemovalLogDay:    tpl.TimeDay,
				TimeRemovalLogStart:  iv.Start,
				TimeRemovalLogEnd:    iv.End,
				TimeRemovalLogReason: reason,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return apperr.FromDB(err, "time removal log")
			}
		}

		if len(kept) == 0 {
			return apperr.FromDB(tx.Delete(&model.TimeModel{}, "time_id = ?", tpl.TimeID).Error, "time")
		}
		if len(removed) > 0 {
			tpl.SetIntervals(kept)
			if err := tx.Model(&model.TimeModel{}).Where("time_id = ?", tpl.TimeID).
				Update("time_times", tpl.TimeTimes).Error; err != nil {
				return apperr.FromDB(err, "time")
			}
		}
		out = &tpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("time_id", templateID.String()).Str("reason", reason).Bool("deleted", out == nil).Msg("intervals removed")
	return out, nil
}

// GetAvailableIntervals returns the day's template minus every interval that exactly
// matches (start and end) a session of the counsellor near date. Cancelled sessions
// do not block a slot.
func (s *AvailabilityService) GetAvailableIntervals(ctx context.Context, counsellorID uuid.UUID, day string, date time.Time) ([]model.Interval, error) {
	if date.IsZero() {
		return nil, apperr.Validation("date is required")
	}
	if strings.TrimSpace(day) == "" {
		day = constants.WeekdayName(date.Weekday())
	}
	day, err := normalizeDay(day)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var tpl model.TimeModel
	if err := db.Where("time_user_id = ? AND time_day = ?", counsellorID, day).Take(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no available times found")
		}
		return nil, apperr.FromDB(err, "time")
	}
	template := tpl.Intervals()
	if len(template) == 0 {
		return nil, apperr.NotFound("no available times found")
	}

	date = dbtime.DateOnly(date)
	from := date.AddDate(0, 0, -s.SlackDays)
	to := date.AddDate(0, 0, s.SlackDays)

	var booked []sessionModel.SessionModel
	if err := db.Select("session_start_time", "session_end_time").
		Where("session_counsellor_id = ? AND session_date BETWEEN ? AND ? AND session_status <> ?",
			counsellorID, from, to, sessionModel.SessionStatusCancelled).
		Find(&booked).Error; err != nil {
		return nil, apperr.FromDB(err, "session")
	}

	taken := make(map[model.Interval]bool, len(booked))
	for _, b := range booked {
		taken[model.Interval{Start: b.SessionStartTime, End: b.SessionEndTime}] = true
	}
	free := make([]model.Interval, 0, len(template))
	for _, iv := range template {
		if !taken[iv] {
			free = append(free, iv)
		}
	}
	return free, nil
}

// ListAvailableDays returns the weekdays with at least one interval, Monday first.
func (s *AvailabilityService) ListAvailableDays(ctx context.Context, counsellorID uuid.UUID) ([]string, error) {
	rows, err := s.ListOwn(ctx, counsellorID)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, len(rows))
	for i := range rows {
		if len(rows[i].Intervals()) > 0 {
			days = append(days, rows[i].TimeDay)
		}
	}
	return days, nil
}

// ListOwn returns every template of the counsellor ordered Monday to Sunday.
func (s *AvailabilityService) ListOwn(ctx context.Context, counsellorID uuid.UUID) ([]model.TimeModel, error) {
	var rows []model.TimeModel
	if err := s.DB.WithContext(ctx).Where("time_user_id = ?", counsellorID).Find(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "time")
	}
	order := make(map[string]int, len(constants.Weekdays))
	for i, d := range constants.Weekdays {
		order[d] = i
	}
	sort.SliceStable(rows, func(i, j int) bool { return order[rows[i].TimeDay] < order[rows[j].TimeDay] })
	return rows, nil
}

// RemovalLogs lists the withdrawal audit trail of a counsellor, newest first.
func (s *AvailabilityService) RemovalLogs(ctx context.Context, counsellorID uuid.UUID) ([]model.TimeRemovalLogModel, error) {
	var rows []model.TimeRemovalLogModel
	if err := s.DB.WithContext(ctx).Where("time_removal_log_user_id = ?", counsellorID).
		Order("time_removal_log_created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "time removal log")
	}
	return rows, nil
}

// SeedDefaults gives a new counsellor the standard weekly template. It runs on the
// caller's transaction.
func SeedDefaults(tx *gorm.DB, counsellorID uuid.UUID) error {
	slots := make([]model.Interval, 0, len(constants.DefaultCounsellorSlots))
	for _, s := range constants.DefaultCounsellorSlots {
		slots = append(slots, model.Interval{Start: s[0], End: s[1]})
	}
	for _, day := range constants.DefaultCounsellorDays {
		row := model.TimeModel{TimeUserID: counsellorID, TimeDay: day}
		row.SetIntervals(slots)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
