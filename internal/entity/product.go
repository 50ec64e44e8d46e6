package entity

import (
	"time"

	"github.com/director74/pos-terminal/pkg/money"
)

// Product товар каталога
type Product struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string      `json:"name" gorm:"not null"`
	Description string      `json:"description"`
	Price       money.Money `json:"price" gorm:"type:bigint;not null"`
	Category    string      `json:"category" gorm:"index"`
	Barcode     string      `json:"barcode" gorm:"uniqueIndex"`
	ImageURL    string      `json:"image_url"`
	InStock     bool        `json:"in_stock" gorm:"not null;default:true"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ProductListResponse список товаров каталога
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
}

// SyncProductMessage сообщение синхронизации каталога из внешней системы
type SyncProductMessage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category"`
	Barcode     string `json:"barcode"`
	ImageURL    string `json:"image_url"`
	InStock     bool   `json:"in_stock"`
}
