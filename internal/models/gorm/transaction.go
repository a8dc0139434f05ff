package gorm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a signed monetary ledger entry. Charges are negative.
type Transaction struct {
	ID        string          `gorm:"column:id;primaryKey;type:uuid"`
	PilotID   string          `gorm:"column:pilot_id;type:uuid;index"`
	FlightID  *string         `gorm:"column:flight_id;type:uuid;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(14,2)"`
	Concept   string          `gorm:"column:concept"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate assigns a UUID so both Postgres and SQLite tests behave alike
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
