package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-order-saga/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-saga/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists stock levels and movements in PostgreSQL using
// GORM. Level adjustments run as single guarded UPDATEs so concurrent
// withdrawals never drive a quantity negative.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&stockRecord{}, &movementRecord{})
	}
	return repo
}

type stockRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id"`
	Quantity  int32     `gorm:"column:quantity"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock_levels" }

type movementRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ProductID  int64     `gorm:"column:product_id;index:idx_movements_product_direction"`
	Quantity   int32     `gorm:"column:quantity"`
	Direction  string    `gorm:"column:direction;type:varchar(8);index:idx_movements_product_direction"`
	RecordedAt time.Time `gorm:"column:recorded_at"`
}

func (movementRecord) TableName() string { return "stock_movements" }

// GetStock fetches the level for a product.
func (r *Repository) GetStock(ctx context.Context, productID int64) (*domain.StockLevel, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record stockRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListStocks returns all levels ordered by product id.
func (r *Repository) ListStocks(ctx context.Context) ([]*domain.StockLevel, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []stockRecord
	if err := r.db.WithContext(ctx).Order("product_id").Find(&records).Error; err != nil {
		return nil, err
	}
	levels := make([]*domain.StockLevel, 0, len(records))
	for i := range records {
		levels = append(levels, records[i].toDomain())
	}
	return levels, nil
}

// AddStock upserts the level, accumulating quantity on conflict.
func (r *Repository) AddStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := stockRecord{ProductID: productID, Quantity: quantity, UpdatedAt: time.Now()}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("stock_levels.quantity + ?", quantity),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetStock(ctx, productID)
}

// ReduceStock withdraws quantity with a guard against going negative.
func (r *Repository) ReduceStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&stockRecord{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Guarded update matched nothing: either the row is absent or
		// the level cannot cover the withdrawal.
		if _, err := r.GetStock(ctx, productID); err != nil {
			return nil, err
		}
		return nil, domain.ErrInsufficientStock
	}
	return r.GetStock(ctx, productID)
}

// RevertStock returns withdrawn quantity to the level. One transaction
// takes a row lock on the level, clamps against the ledger's
// outstanding withdrawals, applies the addition, and records the
// revert movement; overlapping reverts serialize on the lock.
func (r *Repository) RevertStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, int32, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var level *domain.StockLevel
	var applied int32
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record stockRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "product_id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		out, err := sumMovements(tx, productID, domain.DirectionOut)
		if err != nil {
			return err
		}
		reverted, err := sumMovements(tx, productID, domain.DirectionRevert)
		if err != nil {
			return err
		}
		want := int64(quantity)
		if outstanding := out - reverted; want > outstanding {
			want = outstanding
		}
		if want <= 0 {
			level = record.toDomain()
			return nil
		}
		applied = int32(want)
		record.Quantity += applied
		record.UpdatedAt = time.Now()
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		entry := movementRecord{
			ProductID:  productID,
			Quantity:   applied,
			Direction:  string(domain.DirectionRevert),
			RecordedAt: time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		level = record.toDomain()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return level, applied, nil
}

// AppendMovement records one ledger entry.
func (r *Repository) AppendMovement(ctx context.Context, movement *domain.Movement) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := movementRecord{
		ProductID:  movement.ProductID,
		Quantity:   movement.Quantity,
		Direction:  string(movement.Direction),
		RecordedAt: movement.RecordedAt,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// SumMovements totals ledger quantities for a product and direction.
func (r *Repository) SumMovements(ctx context.Context, productID int64, direction domain.Direction) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	return sumMovements(r.db.WithContext(ctx), productID, direction)
}

func sumMovements(db *gorm.DB, productID int64, direction domain.Direction) (int64, error) {
	var total int64
	err := db.Model(&movementRecord{}).
		Where("product_id = ? AND direction = ?", productID, string(direction)).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres inventory repository not configured")
	}
	return nil
}

func (r stockRecord) toDomain() *domain.StockLevel {
	return &domain.StockLevel{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UpdatedAt: r.UpdatedAt,
	}
}
