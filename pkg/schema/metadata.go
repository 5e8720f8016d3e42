package schema

import (
	"time"

	"gorm.io/gorm"
)

// Status values for DatasetMetadata.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// DatasetMetadata tracks the most recent ingestion of one dataset. The row
// is overwritten on every store, it is not a history.
type DatasetMetadata struct {
	// DatasetID identifies the dataset, e.g. "ntas_2020".
	DatasetID string `gorm:"column:dataset_id;primaryKey;type:varchar(20)"`

	// DatasetName is the human-readable dataset title.
	DatasetName string `gorm:"column:dataset_name;type:varchar(255)"`

	// StoredTableName is the destination table the dataset is stored in.
	// (Named to avoid colliding with the TableName method GORM requires.)
	StoredTableName string `gorm:"column:table_name;type:varchar(255)"`

	// LastIngestion is the time of the most recent store or upsert.
	LastIngestion time.Time `gorm:"column:last_ingestion"`

	// RecordCount is the row count written by the most recent ingestion.
	RecordCount int `gorm:"column:record_count"`

	// Status is "success" or "failure".
	Status string `gorm:"column:status;type:varchar(50)"`
}

// TableName returns the PostgreSQL table name for GORM.
func (DatasetMetadata) TableName() string {
	return "dataset_metadata"
}

// Migrate runs GORM AutoMigrate for the bookkeeping tables. Dataset tables
// themselves are created from descriptors, not migrated here.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&DatasetMetadata{})
}
