package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Place{}, &Evaluation{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertPlace inserts or updates a place keyed by its place ID.
func (d *Database) UpsertPlace(place *Place) error {
	if place == nil {
		return errors.New("place is nil")
	}
	place.PlaceID = strings.TrimSpace(place.PlaceID)
	if place.PlaceID == "" {
		return errors.New("place id is empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "latitude", "longitude", "address", "cuisine", "rating",
			"reviews", "average_price", "price_text", "open_hours_json",
			"payments", "offerings", "recommended_dishes", "service_options",
			"amenities", "crowd", "hours", "accessibility", "highlights",
			"atmosphere", "dining_options", "planning", "children", "pets",
			"updated_at",
		}),
	}).Create(place).Error
}

// ReplacePlaces swaps the stored corpus with the provided slice.
func (d *Database) ReplacePlaces(places []Place) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Place{}).Error; err != nil {
			return err
		}
		if len(places) == 0 {
			return nil
		}
		return tx.CreateInBatches(places, 250).Error
	})
}

// ListPlaces returns all stored places ordered by ID.
func (d *Database) ListPlaces() ([]Place, error) {
	var places []Place
	if err := d.gorm.Order("id ASC").Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

// CountPlaces returns the number of stored places.
func (d *Database) CountPlaces() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Place{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveEvaluation creates an evaluation row.
func (d *Database) SaveEvaluation(e *Evaluation) error {
	if e == nil {
		return errors.New("evaluation is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(e).Error
}

// RecentEvaluations returns the latest evaluation rows, newest first.
func (d *Database) RecentEvaluations(limit int) ([]Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []Evaluation
	if err := d.gorm.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
