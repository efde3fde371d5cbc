package service

import (
	"context"

	"github.com/GTDGit/ministore_api/internal/models"
	"github.com/GTDGit/ministore_api/internal/repository"
)

// CommonService serves the lookup lists used by dashboard forms.
type CommonService struct {
	lookupRepo *repository.LookupRepository
	clientRepo *repository.ClientRepository
}

func NewCommonService(lookupRepo *repository.LookupRepository, clientRepo *repository.ClientRepository) *CommonService {
	return &CommonService{lookupRepo: lookupRepo, clientRepo: clientRepo}
}

func (s *CommonService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.lookupRepo.ListCategories(ctx)
}

func (s *CommonService) Clients(ctx context.Context) ([]models.Client, error) {
	return s.clientRepo.ListActive(ctx)
}

func (s *CommonService) Channels(ctx context.Context) ([]models.SalesChannel, error) {
	return s.lookupRepo.ListChannels(ctx)
}
