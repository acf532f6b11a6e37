package rr

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

////////////////
//
// (DB store)
//

// StoredReport is the db store's row for one analyzed record.
type StoredReport struct {
	gorm.Model

	Title      string `gorm:"uniqueIndex"`
	RecordKey  string `gorm:"index"`
	Link       string
	SourceID   string
	SourceName string
	Published  string

	Report string
}

// db store
type dbStore struct {
	db *gorm.DB

	verbose bool
}

// Exists checks whether an analysis for given title is stored.
func (s *dbStore) Exists(title string) (exists bool) {
	v(s.verbose, "dbStore - checking existence of report with title: %s", title)

	err := s.db.Model(&StoredReport{}).Where("title = ?", title).Select("count(*) > 0").Find(&exists).Error
	if err == nil {
		return exists
	}

	log.Printf("failed to check existence of report with title '%s': %s", title, err)

	return false
}

// Save upserts the analysis of given record.
func (s *dbStore) Save(record ContentRecord, report string) error {
	v(s.verbose, "dbStore - saving report for record: %s", record.Title)

	stored := StoredReport{
		Title:      record.Title,
		RecordKey:  record.Key,
		Link:       record.Link,
		SourceID:   record.SourceID,
		SourceName: record.SourceName,
		Published:  record.Published,

		Report: report,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"record_key",
			"report",
		}),
	}).Create(&stored).Error
}

// Fetch fetches the stored analysis with given title, nil when absent.
func (s *dbStore) Fetch(title string) *AnalysisArtifact {
	v(s.verbose, "dbStore - fetching report with title: %s", title)

	var stored []StoredReport
	err := s.db.Model(&StoredReport{}).Where("title = ?", title).Limit(1).Find(&stored).Error
	if err != nil {
		log.Printf("failed to fetch report with title '%s': %s", title, err)
		return nil
	}
	if len(stored) == 0 {
		return nil
	}

	return &AnalysisArtifact{
		RecordTitle: stored[0].Title,
		ReportText:  stored[0].Report,
	}
}

// SetVerbose sets the verbosity of the store.
func (s *dbStore) SetVerbose(v bool) {
	s.verbose = v
}

// return a new db store backed by a SQLite file
func newDBStore(filepath string) (*dbStore, error) {
	db, err := gorm.Open(sqlite.Open(filepath), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             slowQueryThresholdSeconds * time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				ParameterizedQueries:      true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, err
	}

	// migrate the schema
	if err := db.AutoMigrate(&StoredReport{}); err != nil {
		log.Printf("failed to migrate db: %s", err)
	}

	return &dbStore{
		db: db,
	}, nil
}
