package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GTDGit/ministore_api/internal/models"
	"github.com/GTDGit/ministore_api/internal/repository"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// ClientService handles customer management.
type ClientService struct {
	clientRepo *repository.ClientRepository
}

// NewClientService constructs a ClientService.
func NewClientService(clientRepo *repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ClientRequest is the body of client create and update calls.
type ClientRequest struct {
	Name    string  `json:"nombre_cliente" binding:"required,max=150"`
	Phone   *string `json:"telefono" binding:"omitempty,max=30"`
	Address *string `json:"direccion"`
	Notes   *string `json:"notas"`
}

// ListClients returns active clients ordered by name.
func (s *ClientService) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.clientRepo.ListActive(ctx)
}

// GetClient returns a client by id.
func (s *ClientService) GetClient(ctx context.Context, id int) (*models.Client, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrClientNotFound
		}
		return nil, err
	}
	return c, nil
}

// CreateClient stores a new client.
func (s *ClientService) CreateClient(ctx context.Context, req *ClientRequest) (*models.Client, error) {
	c := &models.Client{
		Name:    strings.TrimSpace(req.Name),
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := s.clientRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create cliente: %w", err)
	}
	return c, nil
}

// UpdateClient overwrites a client's contact data.
func (s *ClientService) UpdateClient(ctx context.Context, id int, req *ClientRequest) (*models.Client, error) {
	c := &models.Client{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := s.clientRepo.Update(ctx, c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrClientNotFound
		}
		return nil, fmt.Errorf("update cliente %d: %w", id, err)
	}
	return s.GetClient(ctx, id)
}

// DeleteClient soft deletes a client.
func (s *ClientService) DeleteClient(ctx context.Context, id int) error {
	if err := s.clientRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrClientNotFound
		}
		return fmt.Errorf("delete cliente %d: %w", id, err)
	}
	return nil
}
