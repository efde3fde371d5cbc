package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/ministore_api/internal/models"
	"github.com/GTDGit/ministore_api/internal/repository"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// ImageStore persists product images and returns their public URL.
type ImageStore interface {
	UploadProductImage(ctx context.Context, productID int, filename, contentType string, body io.Reader, size int64) (string, error)
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ProductService provides product catalog business logic.
type ProductService struct {
	productRepo *repository.ProductRepository
	lookupRepo  *repository.LookupRepository
	images      ImageStore
}

// NewProductService constructs a ProductService. images may be nil when
// object storage is not configured.
func NewProductService(productRepo *repository.ProductRepository, lookupRepo *repository.LookupRepository, images ImageStore) *ProductService {
	return &ProductService{productRepo: productRepo, lookupRepo: lookupRepo, images: images}
}

// ProductRequest is the body of product create and update calls.
type ProductRequest struct {
	Name        string           `json:"nombre_producto" binding:"required,max=150"`
	Description *string          `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio" binding:"required"`
	Size        *string          `json:"tamano" binding:"omitempty,max=50"`
	ImageURL    *string          `json:"imagen_url"`
	CategoryID  int              `json:"id_categoria" binding:"required,min=1"`
}

// ListProducts returns active products, optionally limited to one category.
func (s *ProductService) ListProducts(ctx context.Context, categoryID *int) ([]models.Product, error) {
	return s.productRepo.ListActive(ctx, categoryID)
}

// GetProduct returns a product whether active or not.
func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		Size:        req.Size,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create producto: %w", err)
	}
	return p, nil
}

// UpdateProduct overwrites a product. An omitted imagen_url keeps the stored one.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, req *ProductRequest) (*models.Product, error) {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	current.Name = strings.TrimSpace(req.Name)
	current.Description = req.Description
	current.Price = *req.Price
	current.Size = req.Size
	current.CategoryID = req.CategoryID
	if req.ImageURL != nil {
		current.ImageURL = req.ImageURL
	}

	if err := s.productRepo.Update(ctx, current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, fmt.Errorf("update producto %d: %w", id, err)
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct soft deletes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return fmt.Errorf("delete producto %d: %w", id, err)
	}
	return nil
}

// UploadImage stores the image in object storage and records its URL.
func (s *ProductService) UploadImage(ctx context.Context, id int, filename, contentType string, body io.Reader, size int64) (*models.Product, error) {
	if s.images == nil {
		return nil, utils.ErrStorageDisabled
	}
	if !allowedImageTypes[contentType] {
		return nil, utils.ErrInvalidImage
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.images.UploadProductImage(ctx, id, filename, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("upload imagen producto %d: %w", id, err)
	}
	if err := s.productRepo.SetImageURL(ctx, id, url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, fmt.Errorf("set imagen producto %d: %w", id, err)
	}
	return s.GetProduct(ctx, id)
}

func (s *ProductService) validate(ctx context.Context, req *ProductRequest) error {
	if req.Price == nil || req.Price.IsNegative() {
		return utils.ErrInvalidPrice
	}
	exists, err := s.lookupRepo.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return fmt.Errorf("check categoria %d: %w", req.CategoryID, err)
	}
	if !exists {
		return utils.ErrCategoryNotFound
	}
	return nil
}
