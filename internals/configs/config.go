package configs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"counselling_backend/internals/helpers/applog"
)

var (
	JWTSecret string
	Cfg       AppConfig
)

// AppConfig is the typed view over the environment, loaded once by LoadEnv.
type AppConfig struct {
	Port        string
	APIVersion  string
	Timezone    string
	CorsOrigins string

	MailerHost     string
	MailerPort     int
	MailerEmail    string
	MailerPassword string
	MailerDisabled bool

	NotifyBuffer  int
	NotifyWorkers int

	// days of slack on each side of the requested date when subtracting booked sessions
	AvailabilitySlackDays int

	ReminderCron string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	log := applog.WithComponent("config")

	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg(".env file not found, using system environment")
		} else {
			log.Info().Msg(".env file loaded")
		}
	} else {
		log.Info().Msg("running on managed platform, using system environment")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Error().Msg("JWT_SECRET is not set")
	}

	Cfg = AppConfig{
		Port:                  GetEnv("PORT", "3000"),
		APIVersion:            GetEnv("API_VERSION", "v1"),
		Timezone:              GetEnv("APP_TIMEZONE", "Asia/Kolkata"),
		CorsOrigins:           GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		MailerHost:            GetEnv("MAILER_HOST", "smtp.gmail.com"),
		MailerPort:            GetEnvInt("MAILER_PORT", 587),
		MailerEmail:           GetEnv("MAILER_EMAIL"),
		MailerPassword:        GetEnv("MAILER_PASSWORD"),
		MailerDisabled:        GetEnvBool("MAILER_DISABLED", false),
		NotifyBuffer:          GetEnvInt("NOTIFY_BUFFER", 256),
		NotifyWorkers:         GetEnvInt("NOTIFY_WORKERS", 2),
		AvailabilitySlackDays: GetEnvInt("AVAILABILITY_SLACK_DAYS", 1),
		ReminderCron:          GetEnv("REMINDER_CRON", "0 0 * * *"),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// =======================
// DATABASE CONNECTOR
// =======================

// PostgresDSN builds the connection string from DB_* variables.
func PostgresDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s&application_name=counselling",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "require"),
	)
}

// InitSeederDB opens a dedicated connection for the migrate/seed commands.
func InitSeederDB() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect seeder db: %w", err)
	}
	applog.WithComponent("config").Info().Msg("seeder database connected")
	return db, nil
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	log           *zerolog.Logger
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	switch strings.ToLower(GetEnv("DB_LOG_LEVEL")) {
	case "silent":
		level = gormLogger.Silent
	case "error":
		level = gormLogger.Error
	case "info":
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
		log:           applog.WithComponent("gorm"),
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.log.Info().Msgf(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.log.Warn().Msgf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.log.Error().Msgf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && err != gorm.ErrRecordNotFound:
		l.log.Error().Err(err).Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		l.log.Warn().Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg("slow sql: " + sql)
	case l.LogLevel >= gormLogger.Info:
		l.log.Debug().Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg(sql)
	}
}
