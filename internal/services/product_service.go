// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketquery/backend/internal/models"
	"github.com/marketquery/backend/internal/storage"
	"github.com/marketquery/backend/internal/utils"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService struct {
	db    *gorm.DB
	store *storage.Store
}

type ProductInput struct {
	Name        string  `form:"nama_barang" validate:"required,max=255"`
	Price       float64 `form:"harga" validate:"gte=0"`
	Category    string  `form:"kategori" validate:"required,max=100"`
	Description string  `form:"deskripsi"`
	Stock       int     `form:"stok" validate:"gte=0"`
}

type ListParams struct {
	Search string
	SortBy string
	Order  string
}

// sortableColumns is the allow-list for order-by; anything else silently
// falls back to nama_barang so arbitrary columns never reach the query.
var sortableColumns = map[string]bool{
	"nama_barang": true,
	"harga":       true,
	"stok":        true,
	"kategori":    true,
}

func NewProductService(db *gorm.DB, store *storage.Store) *ProductService {
	return &ProductService{
		db:    db,
		store: store,
	}
}

func (s *ProductService) List(params ListParams) ([]models.Product, error) {
	query := s.db.Model(&models.Product{})

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(nama_barang) LIKE ? OR LOWER(kategori) LIKE ?", term, term)
	}

	column := params.SortBy
	if !sortableColumns[column] {
		column = "nama_barang"
	}

	direction := "ASC"
	if strings.EqualFold(params.Order, "DESC") {
		direction = "DESC"
	}

	products := make([]models.Product, 0)
	if err := query.Order(column + " " + direction).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, nil
}

func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id_product = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// Create persists a new product. The image, when present, has already been
// stored by the upload acceptor; only its filename is recorded here.
func (s *ProductService) Create(input *ProductInput, image *string) (*models.Product, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Price:       input.Price,
		Category:    input.Category,
		Description: input.Description,
		Stock:       input.Stock,
		Image:       image,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update applies the scalar fields and resolves the image reference:
// a newly staged file replaces the old one, the delete flag clears it,
// otherwise the existing reference is kept. The row is committed before the
// replaced file is deleted, so a failed write never orphans a live image.
func (s *ProductService) Update(id uuid.UUID, input *ProductInput, newImage *string, deleteImage bool) (*models.Product, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id_product = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldImage := product.Image
	resolved := oldImage
	removeOld := false

	switch {
	case newImage != nil:
		resolved = newImage
		removeOld = oldImage != nil
	case deleteImage:
		resolved = nil
		removeOld = oldImage != nil
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Category = input.Category
	product.Description = input.Description
	product.Stock = input.Stock
	product.Image = resolved

	if err := s.db.Save(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if removeOld {
		s.store.Remove(*oldImage)
	}

	return &product, nil
}

func (s *ProductService) Delete(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id_product = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if product.Image != nil {
		s.store.Remove(*product.Image)
	}

	return nil
}
