package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"counselling_backend/internals/features/counselling/types/model"
	"counselling_backend/internals/helpers/apperr"
)

// DefaultTypes are seeded on a fresh install.
var DefaultTypes = []string{"Academic", "Career", "Personal", "Behavioural", "Family"}

type TypeService struct {
	DB *gorm.DB
}

func NewTypeService(db *gorm.DB) *TypeService { return &TypeService{DB: db} }

func cleanName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", apperr.Validation("counselling type name is required")
	}
	return name, nil
}

// nameTaken is checked up front so duplicates read as validation errors on every driver.
func nameTaken(tx *gorm.DB, name string, except uuid.UUID) (bool, error) {
	var n int64
	q := tx.Model(&model.CounsellingTypeModel{}).Where("LOWER(counselling_type_name) = ?", strings.ToLower(name))
	if except != uuid.Nil {
		q = q.Where("counselling_type_id <> ?", except)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *TypeService) Create(ctx context.Context, name string) (*model.CounsellingTypeModel, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	taken, err := nameTaken(db, name, uuid.Nil)
	if err != nil {
		return nil, apperr.FromDB(err, "counselling type")
	}
	if taken {
		return nil, apperr.Validation("counselling type %q already exists", name)
	}

	m := model.CounsellingTypeModel{CounsellingTypeName: name}
	if err := db.Create(&m).Error; err != nil {
		return nil, apperr.FromDB(err, "counselling type")
	}
	return &m, nil
}

func (s *TypeService) Update(ctx context.Context, id uuid.UUID, name string) (*model.CounsellingTypeModel, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	var m model.CounsellingTypeModel
	if err := db.Where("counselling_type_id = ?", id).Take(&m).Error; err != nil {
		return nil, apperr.FromDB(err, "counselling type")
	}
	taken, err := nameTaken(db, name, id)
	if err != nil {
		return nil, apperr.FromDB(err, "counselling type")
	}
	if taken {
		return nil, apperr.Validation("counselling type %q already exists", name)
	}
	if err := db.Model(&m).Update("counselling_type_name", name).Error; err != nil {
		return nil, apperr.FromDB(err, "counselling type")
	}
	m.CounsellingTypeName = name
	return &m, nil
}

func (s *TypeService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("counselling_type_id = ?", id).Delete(&model.CounsellingTypeModel{})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "counselling type")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("counselling type not found")
	}
	return nil
}

// BulkDelete deletes each id independently and reports the ones that failed.
func (s *TypeService) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return apperr.Validation("a non-empty list of counselling type ids is required")
	}
	var failed []string
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			failed = append(failed, id.String())
		}
	}
	if len(failed) > 0 {
		return apperr.Partial(fmt.Sprintf("%d of %d counselling types could not be deleted", len(failed), len(ids)), failed)
	}
	return nil
}

func (s *TypeService) List(ctx context.Context, search string, limit, offset int) ([]model.CounsellingTypeModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.CounsellingTypeModel{})
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		q = q.Where("LOWER(counselling_type_name) LIKE ?", "%"+term+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "counselling type")
	}
	if limit <= 0 {
		limit = 10
	}
	var rows []model.CounsellingTypeModel
	if err := q.Order("counselling_type_name ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "counselling type")
	}
	return rows, total, nil
}

// EnsureDefaults inserts any missing DefaultTypes; existing names are left alone.
func EnsureDefaults(tx *gorm.DB) error {
	for _, name := range DefaultTypes {
		m := model.CounsellingTypeModel{CounsellingTypeName: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
			return err
		}
	}
	return nil
}
