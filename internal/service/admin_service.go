package service

import (
	"context"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
)

const recentProductsLimit = 5

type AdminService interface {
	Stats(ctx context.Context) (*domain.AdminStats, error)
}

type adminService struct {
	statsRepo   repository.StatsRepository
	productRepo repository.ProductRepository
}

func NewAdminService(statsRepo repository.StatsRepository, productRepo repository.ProductRepository) AdminService {
	return &adminService{statsRepo: statsRepo, productRepo: productRepo}
}

// Stats counts the dashboard entities and lists the newest products, inactive
// ones included.
func (s *adminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.statsRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.productRepo.Recent(ctx, recentProductsLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentProducts = recent

	return stats, nil
}
