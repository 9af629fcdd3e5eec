package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/service-scheduler/internal/config"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

const exclusionConstraint = "appointments_no_overlap"

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the tables and the overlap guard on appointments.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Staff{},
		&models.StaffService{},
		&models.WorkingHours{},
		&models.TimeOff{},
		&models.Appointment{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	var exists bool
	if err := db.Raw(
		`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`,
		exclusionConstraint,
	).Scan(&exists).Error; err != nil {
		return fmt.Errorf("check overlap constraint: %w", err)
	}
	if exists {
		return nil
	}

	if err := db.Exec(exclusionSQL()).Error; err != nil {
		return fmt.Errorf("add overlap constraint: %w", err)
	}
	return nil
}

// exclusionSQL keeps blocking appointments of one staff member on one date
// from overlapping, whatever path writes them.
func exclusionSQL() string {
	quoted := make([]string, 0, len(domain.BlockingStatuses()))
	for _, s := range domain.BlockingStatuses() {
		quoted = append(quoted, "'"+s+"'")
	}

	return fmt.Sprintf(`
		ALTER TABLE appointments
		ADD CONSTRAINT %s
		EXCLUDE USING gist (
			staff_id WITH =,
			date WITH =,
			int4range(start_minute, end_minute) WITH &&
		)
		WHERE (status IN (%s))`,
		exclusionConstraint,
		strings.Join(quoted, ", "),
	)
}
