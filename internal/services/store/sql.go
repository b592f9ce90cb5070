package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fgeck/timeshift-console/internal/config"
	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// settingsRowID is the primary key of the only row in the table.
const settingsRowID = 1

// settingsRow is the single-row table holding the record.
type settingsRow struct {
	ID              uint   `gorm:"primaryKey;autoIncrement:false"`
	Enabled         bool   `gorm:"not null"`
	OnDemand        bool   `gorm:"not null"`
	Path            string `gorm:"type:varchar(1024);not null"`
	MaxPeriod       int64  `gorm:"not null"`
	UnlimitedPeriod bool   `gorm:"not null"`
	MaxSize         int64  `gorm:"not null"`
	UnlimitedSize   bool   `gorm:"not null"`
	UpdatedAt       time.Time
}

func (settingsRow) TableName() string {
	return "timeshift_settings"
}

func rowFromSettings(s models.TimeshiftSettings) settingsRow {
	return settingsRow{
		ID:              settingsRowID,
		Enabled:         s.Enabled,
		OnDemand:        s.OnDemand,
		Path:            s.Path,
		MaxPeriod:       s.MaxPeriod,
		UnlimitedPeriod: s.UnlimitedPeriod,
		MaxSize:         s.MaxSize,
		UnlimitedSize:   s.UnlimitedSize,
	}
}

func (r settingsRow) settings() models.TimeshiftSettings {
	return models.TimeshiftSettings{
		Enabled:         r.Enabled,
		OnDemand:        r.OnDemand,
		Path:            r.Path,
		MaxPeriod:       r.MaxPeriod,
		UnlimitedPeriod: r.UnlimitedPeriod,
		MaxSize:         r.MaxSize,
		UnlimitedSize:   r.UnlimitedSize,
	}
}

// SQL keeps the record in a relational database through gorm.
type SQL struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// OpenSQL connects to the database described by cfg and migrates the schema.
func OpenSQL(cfg models.StoreConfig, logger zerolog.Logger) (*SQL, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Path)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q is not an SQL driver", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(gormWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	return NewSQL(db, logger)
}

// NewSQL wraps an open gorm handle and migrates the schema.
func NewSQL(db *gorm.DB, logger zerolog.Logger) (*SQL, error) {
	if err := db.AutoMigrate(&settingsRow{}); err != nil {
		return nil, fmt.Errorf("migrating settings table: %w", err)
	}
	return &SQL{db: db, logger: logger}, nil
}

// Load reads the settings row, returning the defaults if it does not exist.
func (s *SQL) Load(ctx context.Context) (models.TimeshiftSettings, error) {
	var row settingsRow
	err := s.db.WithContext(ctx).First(&row, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Debug().Msg("settings row not found, using defaults")
		return models.DefaultTimeshiftSettings(), nil
	}
	if err != nil {
		return models.TimeshiftSettings{}, fmt.Errorf("loading settings: %w", err)
	}
	return row.settings(), nil
}

// Save upserts the settings row.
func (s *SQL) Save(ctx context.Context, settings models.TimeshiftSettings) error {
	row := rowFromSettings(settings)
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormWriter routes gorm's logger output into zerolog.
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Msgf(format, args...)
}
