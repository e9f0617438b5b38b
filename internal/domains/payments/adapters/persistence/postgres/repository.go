package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-order-saga/internal/domains/payments/domain"
	"github.com/Apurer/go-order-saga/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists payments in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&paymentRecord{})
	}
	return repo
}

type paymentRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ProductID int64     `gorm:"column:product_id;index"`
	Quantity  int32     `gorm:"column:quantity"`
	Method    string    `gorm:"column:method;type:varchar(16)"`
	Amount    float64   `gorm:"column:amount"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (paymentRecord) TableName() string { return "payments" }

// Save inserts a payment and returns it with its assigned identifier.
func (r *Repository) Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(payment)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches a payment by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record paymentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all payments, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []paymentRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	payments := make([]*domain.Payment, 0, len(records))
	for i := range records {
		payments = append(payments, records[i].toDomain())
	}
	return payments, nil
}

// Delete removes a payment by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&paymentRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres payment repository not configured")
	}
	return nil
}

func toRecord(payment *domain.Payment) paymentRecord {
	return paymentRecord{
		ID:        payment.ID,
		ProductID: payment.ProductID,
		Quantity:  payment.Quantity,
		Method:    string(payment.Method),
		Amount:    payment.Amount,
		CreatedAt: payment.CreatedAt,
	}
}

func (r paymentRecord) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:        r.ID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Method:    domain.Method(r.Method),
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
	}
}
