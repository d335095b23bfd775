package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanEvent is one row in the scan audit archive. Every scan attempt
// is recorded, including ones that found no barcode or whose product
// lookup failed, so the history endpoint can show what the scanner
// actually saw.
type ScanEvent struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	Barcode     string         `gorm:"index" json:"barcode"`
	BarcodeType string         `json:"barcode_type"`
	Status      string         `gorm:"not null;index" json:"status"` // success, no_barcode, lookup_failed
	ProductName string         `json:"product_name"`
	Detail      string         `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for ScanEvent
func (ScanEvent) TableName() string {
	return "scan_events"
}
