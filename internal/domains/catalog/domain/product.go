package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName    = errors.New("product name must not be empty")
	ErrInvalidPrice = errors.New("product price must be greater than zero")
)

// Product models a sellable catalog entry.
type Product struct {
	ID     int64
	Name   string
	Price  float64
	Active bool
}

// NewProduct validates and constructs a product. New products start
// active.
func NewProduct(id int64, name string, price float64) (*Product, error) {
	product := &Product{
		ID:     id,
		Name:   strings.TrimSpace(name),
		Price:  price,
		Active: true,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the product.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Rename changes the display name.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// UpdatePrice changes the unit price.
func (p *Product) UpdatePrice(price float64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	p.Price = price
	return nil
}

// ToggleActive flips the availability flag.
func (p *Product) ToggleActive() {
	p.Active = !p.Active
}
