package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the GORM-backed bounded contexts. The
// purchase service manages its own schema through database/sql.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&stockRecord{},
		&movementRecord{},
		&paymentRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;type:varchar(100)"`
	Price     float64   `gorm:"column:price"`
	Active    bool      `gorm:"column:active;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Stock schema mirrors the inventory Postgres adapter.
type stockRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id"`
	Quantity  int32     `gorm:"column:quantity"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock_levels" }

// Movement schema mirrors the inventory ledger.
type movementRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ProductID  int64     `gorm:"column:product_id;index:idx_movements_product_direction"`
	Quantity   int32     `gorm:"column:quantity"`
	Direction  string    `gorm:"column:direction;type:varchar(8);index:idx_movements_product_direction"`
	RecordedAt time.Time `gorm:"column:recorded_at"`
}

func (movementRecord) TableName() string { return "stock_movements" }

// Payment schema mirrors the payments Postgres adapter.
type paymentRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ProductID int64     `gorm:"column:product_id;index"`
	Quantity  int32     `gorm:"column:quantity"`
	Method    string    `gorm:"column:method;type:varchar(16)"`
	Amount    float64   `gorm:"column:amount"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (paymentRecord) TableName() string { return "payments" }
