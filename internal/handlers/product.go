// internal/handlers/product.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marketquery/backend/internal/services"
	"github.com/marketquery/backend/internal/storage"
	"github.com/marketquery/backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	store          *storage.Store
}

func NewProductHandler(productService *services.ProductService, store *storage.Store) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		store:          store,
	}
}

// GET /api/products
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	params := services.ListParams{
		Search: c.Query("search"),
		SortBy: c.DefaultQuery("sortBy", "nama_barang"),
		Order:  c.DefaultQuery("order", "ASC"),
	}

	products, err := h.productService.List(params)
	if err != nil {
		logrus.WithError(err).Error("Failed to list products")
		utils.InternalErrorResponse(c, "Terjadi kesalahan server")
		return
	}

	utils.DisableCaching(c)
	utils.SuccessResponse(c, "Berhasil mengambil produk", products)
}

// GET /api/products/:id
func (h *ProductHandler) GetProductById(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "ID produk tidak valid")
		return
	}

	product, err := h.productService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Produk tidak ditemukan")
			return
		}
		logrus.WithError(err).Error("Failed to get product")
		utils.InternalErrorResponse(c, "Terjadi kesalahan server")
		return
	}

	utils.DisableCaching(c)
	utils.SuccessResponse(c, "Berhasil mengambil detail produk", product)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBind(&input); err != nil {
		utils.BadRequestResponse(c, "Data produk tidak valid")
		return
	}

	// Validate before touching the filesystem so a rejected request never
	// leaves a stray upload behind.
	if err := utils.ValidateStruct(&input); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	image, ok := h.acceptUpload(c)
	if !ok {
		return
	}

	product, err := h.productService.Create(&input, image)
	if err != nil {
		logrus.WithError(err).Error("Failed to create product")
		utils.InternalErrorResponse(c, "Gagal membuat produk")
		return
	}

	utils.CreatedResponse(c, "Produk berhasil dibuat", product)
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "ID produk tidak valid")
		return
	}

	var input services.ProductInput
	if err := c.ShouldBind(&input); err != nil {
		utils.BadRequestResponse(c, "Data produk tidak valid")
		return
	}

	if err := utils.ValidateStruct(&input); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	image, ok := h.acceptUpload(c)
	if !ok {
		return
	}

	deleteImage := c.PostForm("delete_image") == "true"

	product, err := h.productService.Update(id, &input, image, deleteImage)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Produk tidak ditemukan")
			return
		}
		logrus.WithError(err).Error("Failed to update product")
		utils.InternalErrorResponse(c, "Gagal update produk")
		return
	}

	utils.SuccessResponse(c, "Produk berhasil diupdate", product)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "ID produk tidak valid")
		return
	}

	if err := h.productService.Delete(id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Produk tidak ditemukan")
			return
		}
		logrus.WithError(err).Error("Failed to delete product")
		utils.InternalErrorResponse(c, "Gagal menghapus produk")
		return
	}

	utils.SuccessResponse(c, "Produk berhasil dihapus", nil)
}

// acceptUpload stages the optional "gambar" file. The second return value is
// false when the upload was rejected and a response has been written.
func (h *ProductHandler) acceptUpload(c *gin.Context) (*string, bool) {
	header, err := c.FormFile("gambar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}
		utils.BadRequestResponse(c, "Gagal membaca file upload")
		return nil, false
	}

	filename, err := h.store.Save(header)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotImage):
			utils.BadRequestResponse(c, "File harus berupa gambar!")
		case errors.Is(err, storage.ErrTooLarge):
			utils.BadRequestResponse(c, "Ukuran file maksimal 5MB")
		default:
			logrus.WithError(err).Error("Failed to store upload")
			utils.InternalErrorResponse(c, "Gagal menyimpan file")
		}
		return nil, false
	}

	return &filename, true
}
