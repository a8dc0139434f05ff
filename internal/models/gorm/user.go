package gorm

import (
	"time"

	"clubaereo/bitacora/internal/constants"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is a club member. Balance is mutated only through Transaction
// application inside the ledger commit.
type User struct {
	ID         string             `gorm:"column:id;primaryKey;type:uuid"`
	Name       string             `gorm:"column:name"`
	Email      string             `gorm:"column:email;uniqueIndex"`
	Role       constants.UserRole `gorm:"column:role;type:user_role;default:pilot"`
	HourlyRate decimal.Decimal    `gorm:"column:hourly_rate;type:decimal(14,2)"`
	Balance    decimal.Decimal    `gorm:"column:balance;type:decimal(14,2)"`
	IsActive   bool               `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID so both Postgres and SQLite tests behave alike
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
