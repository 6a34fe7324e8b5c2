package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a live-sale product
type Product struct {
	ID            uuid.UUID
	Code          string
	Name          string
	Price         decimal.Decimal
	Cost          decimal.Decimal
	StockQuantity int
	Limit         int // purchase limit per customer
	CF            int // "confirm" count reserved during a live session
	Paid          int
	Remaining     int // stock - paid, recomputed on write
	IsDeleted     bool
	CreateDate    time.Time
	UpdateDate    time.Time
}

// ProductPage is one page of a product search result
type ProductPage struct {
	Docs        []*Product `json:"docs"`
	TotalDocs   int        `json:"totalDocs"`
	Limit       int        `json:"limit"`
	Page        int        `json:"page"`
	TotalPages  int        `json:"totalPages"`
	HasNextPage bool       `json:"hasNextPage"`
	HasPrevPage bool       `json:"hasPrevPage"`
}

// SaleOrder represents a customer order taken from a live sale
type SaleOrder struct {
	ID                 uuid.UUID
	CustomerFacebookID string
	CustomerName       string
	Items              []*OrderItem
	PicturePayment     *string // payment-proof image URL
	Address            string
	SubDistrict        string
	SubArea            string
	District           string
	Postcode           string
	Tel                string
	Channel            string
	Complete           bool
	Sent               bool
	DateAdded          time.Time
	UpdatedAt          time.Time
}

// OrderItem is one product line within a sale order
type OrderItem struct {
	ID          uuid.UUID
	SaleOrderID uuid.UUID
	ProductID   uuid.UUID
	Name        string
	Price       decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
}

// LineTotal is quantity x unit price, recomputed on read and never stored.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DailyStock statuses
const (
	DailyStockStatusNew   = "new"
	DailyStockStatusClear = "clear"
)

// DefaultChannel is the sales channel recorded when none is submitted
const DefaultChannel = "Facebook"

// DailyStock is the product batch prepared for one live-sale session
type DailyStock struct {
	ID         uuid.UUID           `json:"_id"`
	Status     string              `json:"status"`
	Channel    string              `json:"channel"`
	Products   []DailyStockProduct `json:"products"` // stored as JSONB
	PriceTotal decimal.Decimal     `json:"price_total"`
	DateAdded  time.Time           `json:"date_added"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// DailyStockProduct is a product snapshot embedded in a daily stock document
type DailyStockProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	Limit       int             `json:"limit"`
	CF          int             `json:"cf"`
	RemainingCF int             `json:"remaining_cf"`
	Paid        int             `json:"paid"`
	Remaining   int             `json:"remaining"`
	DateAdded   time.Time       `json:"date_added"`
}

// Customer is a Facebook profile that has interacted with the page
type Customer struct {
	ID         uuid.UUID `json:"_id"`
	FacebookID string    `json:"idFb"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	PictureURL string    `json:"picture_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// User is a back-office account
type User struct {
	ID           uuid.UUID `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PictureURL   string    `json:"picture"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
