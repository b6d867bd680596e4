// Package testutil provides an in-memory store and fixtures for service tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "counselling_backend/internals/databases"
	formModel "counselling_backend/internals/features/counselling/forms/model"
	userModel "counselling_backend/internals/features/users/users/model"
)

// NewDB opens a private in-memory sqlite database with every model migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared-cache database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Date builds a UTC calendar date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func CreateUser(t testing.TB, db *gorm.DB, userType userModel.UserType, name string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@school.test",
		Password: "x",
		UserType: userType,
		IsActive: true,
	}
	if userType == userModel.UserTypeCounsellor {
		u.SetCounsellorTypes([]string{"Academic"})
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func CreateCounsellor(t testing.TB, db *gorm.DB, name string) userModel.UserModel {
	return CreateUser(t, db, userModel.UserTypeCounsellor, name)
}

// CreateForm stores an intake form raised by referee ("student", "parent" or "teacher").
func CreateForm(t testing.TB, db *gorm.DB, referee, studentName string) formModel.FormModel {
	t.Helper()
	f := formModel.FormModel{
		FormName:     studentName,
		FormGRNumber: "GR-" + strings.ToUpper(uuid.NewString()[:6]),
		FormReferee:  referee,
		FormEmail:    strings.ToLower(strings.ReplaceAll(studentName, " ", ".")) + "@family.test",
		FormClass:    "8B",
	}
	if referee != formModel.RefereeStudent {
		f.FormRefereeName = "Guardian of " + studentName
	}
	require.NoError(t, db.Create(&f).Error)
	return f
}
