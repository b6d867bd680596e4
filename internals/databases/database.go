package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"counselling_backend/internals/configs"
	formModel "counselling_backend/internals/features/counselling/forms/model"
	sessionModel "counselling_backend/internals/features/counselling/sessions/model"
	timeModel "counselling_backend/internals/features/counselling/times/model"
	typeModel "counselling_backend/internals/features/counselling/types/model"
	eventModel "counselling_backend/internals/features/events/model"
	notificationModel "counselling_backend/internals/features/home/notifications/model"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/applog"
)

var DB *gorm.DB

func ConnectDB() {
	log := applog.WithComponent("database")
	log.Info().Msg("connecting to PostgreSQL")

	// statement_timeout keeps a stuck query from outliving the HTTP timeout guard
	dsn := configs.PostgresDSN() + "&options=-c%20statement_timeout=3000"

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	DB = db
	log.Info().Msg("database connected")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		applog.WithComponent("database").Error().Err(err).Msg("pool tune failed")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			applog.WithComponent("database").Warn().Err(err).Msg("warm-up ping failed")
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Models lists every persisted model, in dependency order.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&formModel.FormModel{},
		&sessionModel.CounterModel{},
		&sessionModel.CaseModel{},
		&sessionModel.SessionModel{},
		&sessionModel.CaseReferralModel{},
		&sessionModel.CaseRemarkModel{},
		&timeModel.TimeModel{},
		&timeModel.TimeRemovalLogModel{},
		&notificationModel.NotificationModel{},
		&typeModel.CounsellingTypeModel{},
		&eventModel.EventModel{},
	}
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
