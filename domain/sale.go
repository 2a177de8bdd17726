package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleDate is a calendar date as typed by the operator. It is kept as
// separate fields because day is only range-checked (1..31), never against
// the month, so it cannot be represented as a time.Time.
type SaleDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// String formats the date as DD/MM/YYYY.
func (d SaleDate) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// Validate checks each field's range independently.
func (d SaleDate) Validate() error {
	if d.Day < 1 || d.Day > 31 {
		return NewValidationError("day", "must be between 1 and 31", d.Day)
	}
	if d.Month < 1 || d.Month > 12 {
		return NewValidationError("month", "must be between 1 and 12", d.Month)
	}
	if d.Year < 1000 || d.Year > 9999 {
		return NewValidationError("year", "must have exactly 4 digits", d.Year)
	}
	return nil
}

// SaleRecord is an append-only sales history entry.
type SaleRecord struct {
	ID           uuid.UUID `json:"id"`
	Date         SaleDate  `json:"date"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	QuantitySold int       `json:"quantity_sold"`
}

// SaleReceipt is returned by a successful sale.
type SaleReceipt struct {
	SaleID            uuid.UUID             `json:"sale_id"`
	ProductName       string                `json:"product_name"`
	UnitPrice         decimal.Decimal       `json:"unit_price"`
	Quantity          int                   `json:"quantity"`
	Total             decimal.Decimal       `json:"total"`
	ResultingQuantity int                   `json:"resulting_quantity"`
	Warning           *StockDepletedWarning `json:"warning,omitempty"`
}

// StockDepletedWarning signals that a successful operation left a product
// with zero stock. It is informational and never returned as an error.
type StockDepletedWarning struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

func (w StockDepletedWarning) String() string {
	return fmt.Sprintf("stock depleted: id=%s name=%s", w.ProductID, w.Name)
}

// StockChange describes the outcome of a stock adjustment.
type StockChange struct {
	ProductID string                `json:"product_id"`
	Previous  int                   `json:"previous"`
	Quantity  int                   `json:"quantity"`
	Warning   *StockDepletedWarning `json:"warning,omitempty"`
}

// DepletionWarning returns a warning when quantity is zero, nil otherwise.
func DepletionWarning(p Product) *StockDepletedWarning {
	if p.Quantity != 0 {
		return nil
	}
	return &StockDepletedWarning{ProductID: p.ID, Name: p.Name}
}
