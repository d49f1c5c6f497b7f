package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// Store is the GORM/SQLite implementation of domain.Store
type Store struct {
	db *gorm.DB
}

// Open initializes the SQLite database at path, migrating the schema and
// seeding the SNP directory when it is empty.
func Open(path string, seed []domain.Vendor) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create database directory: %v", domain.ErrStorageFailure, err)
		}
	}

	db, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", domain.ErrStorageFailure, err)
	}
	if err := db.AutoMigrate(&Application{}, &Vendor{}, &Feedback{}); err != nil {
		return nil, fmt.Errorf("%w: auto migrate: %v", domain.ErrStorageFailure, err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}

	s := &Store{db: db}
	if err := s.seedVendors(seed); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) seedVendors(seed []domain.Vendor) error {
	var count int64
	if err := s.db.Model(&Vendor{}).Count(&count).Error; err != nil {
		return wrap("count vendors", err)
	}
	if count > 0 || len(seed) == 0 {
		return nil
	}

	rows := make([]Vendor, 0, len(seed))
	for _, v := range seed {
		rows = append(rows, vendorFromDomain(v))
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return wrap("seed vendors", err)
	}
	logrus.WithFields(logrus.Fields{"component": "storage", "backend": "sqlite", "vendors": len(rows)}).
		Info("seeded default SNP directory")
	return nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageFailure, op, err)
}

// SaveApplication inserts the application or replaces the one with the same ID
func (s *Store) SaveApplication(ctx context.Context, app *domain.Application) error {
	if app == nil || app.ID == "" {
		return fmt.Errorf("%w: application id is required", domain.ErrInvalidRequest)
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(applicationFromDomain(app)).Error
	if err != nil {
		return wrap("save application", err)
	}
	return nil
}

// GetApplication returns the application with the given ID
func (s *Store) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	var row Application
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, wrap("get application", err)
	}
	app := row.toDomain()
	return &app, nil
}

// ListApplications returns all applications, oldest first
func (s *Store) ListApplications(ctx context.Context) ([]domain.Application, error) {
	var rows []Application
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, wrap("list applications", err)
	}
	apps := make([]domain.Application, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, r.toDomain())
	}
	return apps, nil
}

// UpdateApplicationStatus records a verification decision
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, update domain.StatusUpdate) (*domain.Application, error) {
	var row Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return err
		}
		row.Status = update.Status
		row.VerifierID = update.VerifierID
		row.VerificationComments = update.Comments
		row.UpdatedAt = nowUTC()
		return tx.Save(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, wrap("update application status", err)
	}
	app := row.toDomain()
	return &app, nil
}

// ListVendors returns the registered SNP directory
func (s *Store) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	var rows []Vendor
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("list vendors", err)
	}
	vendors := make([]domain.Vendor, 0, len(rows))
	for _, r := range rows {
		vendors = append(vendors, r.toDomain())
	}
	return vendors, nil
}

// GetVendor returns a registered SNP by ID
func (s *Store) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	var row Vendor
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrVendorNotFound
	}
	if err != nil {
		return nil, wrap("get vendor", err)
	}
	v := row.toDomain()
	return &v, nil
}

// SaveFeedback stores a feedback record
func (s *Store) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	if fb == nil {
		return fmt.Errorf("%w: feedback is nil", domain.ErrInvalidRequest)
	}
	if err := s.db.WithContext(ctx).Create(feedbackFromDomain(fb)).Error; err != nil {
		return wrap("save feedback", err)
	}
	return nil
}

// ListFeedback returns all stored feedback, oldest first
func (s *Store) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var rows []Feedback
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, wrap("list feedback", err)
	}
	out := make([]domain.Feedback, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return wrap("ping", err)
	}
	return nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
