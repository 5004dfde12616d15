// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product field names keep the wire contract of the paired frontend.
type Product struct {
	ID          uuid.UUID `json:"ID_Product" gorm:"type:uuid;column:id_product;primaryKey"`
	Name        string    `json:"nama_barang" gorm:"column:nama_barang;size:255;not null;index"`
	Price       float64   `json:"harga" gorm:"column:harga;not null"`
	Category    string    `json:"kategori" gorm:"column:kategori;size:100;index"`
	Description string    `json:"deskripsi" gorm:"column:deskripsi;type:text"`
	Stock       int       `json:"stok" gorm:"column:stok;default:0"`
	Image       *string   `json:"gambar" gorm:"column:gambar;size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
