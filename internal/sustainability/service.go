package sustainability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/internal/cart"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/ledger"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/users"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/config"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
)

const leaderboardCacheKey = "leaderboard:top"

// Service defines the behavior needed by the sustainability controller.
type Service interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error)
	Leaderboard(ctx context.Context) (*LeaderboardDTO, error)
	CartImpact(ctx context.Context, userID uuid.UUID) (*CartImpactDTO, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*PreferencesDTO, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*PreferencesDTO, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

type service struct {
	repo     *Repository
	users    *users.Repository
	cart     *cart.Repository
	cache    cacheStore
	lbConfig config.LeaderboardConfig
}

// ServiceParams bundles the dependencies for the sustainability service.
type ServiceParams struct {
	Repo        *Repository
	UserRepo    *users.Repository
	CartRepo    *cart.Repository
	Cache       cacheStore
	Leaderboard config.LeaderboardConfig
}

// NewService constructs a sustainability service. Cache is optional; without
// it the leaderboard hits the database on every request.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("sustainability repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	lb := params.Leaderboard
	if lb.Size <= 0 {
		lb.Size = 10
	}
	return &service{
		repo:     params.Repo,
		users:    params.UserRepo,
		cart:     params.CartRepo,
		cache:    params.Cache,
		lbConfig: lb,
	}, nil
}

func (s *service) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	rank, err := s.repo.Rank(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute rank")
	}
	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	ecoCount, err := s.repo.EcoProductCount(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count eco products")
	}

	return &DashboardDTO{
		GreenPoints:       user.GreenPoints,
		TotalCO2Saved:     user.TotalCO2Saved,
		TotalPlasticSaved: user.TotalPlasticSaved,
		EcoProductCount:   ecoCount,
		Rank:              rank,
		TotalUsers:        totalUsers,
	}, nil
}

func (s *service) Leaderboard(ctx context.Context) (*LeaderboardDTO, error) {
	if s.cache != nil {
		// cache miss or cache trouble both fall through to the database
		if raw, err := s.cache.Get(ctx, s.cache.CacheKey(leaderboardCacheKey)); err == nil {
			var cached LeaderboardDTO
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return &cached, nil
			}
		}
	}

	top, err := s.repo.TopUsers(ctx, s.lbConfig.Size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load leaderboard")
	}

	out := &LeaderboardDTO{Entries: make([]LeaderboardEntry, 0, len(top))}
	for i := range top {
		out.Entries = append(out.Entries, LeaderboardEntry{
			Rank:        i + 1,
			Name:        top[i].Name,
			GreenPoints: top[i].GreenPoints,
			CO2Saved:    top[i].TotalCO2Saved,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			_ = s.cache.Set(ctx, s.cache.CacheKey(leaderboardCacheKey), payload, s.lbConfig.CacheTTL)
		}
	}
	return out, nil
}

func (s *service) CartImpact(ctx context.Context, userID uuid.UUID) (*CartImpactDTO, error) {
	lines, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	impact := &CartImpactDTO{
		TotalCO2:     decimal.Zero,
		TotalPlastic: decimal.Zero,
	}
	for i := range lines {
		product := lines[i].Product
		if product == nil {
			continue
		}
		qty := decimal.NewFromInt(int64(lines[i].Quantity))
		impact.TotalCO2 = impact.TotalCO2.Add(product.CarbonFootprint.Mul(qty))
		impact.TotalPlastic = impact.TotalPlastic.Add(product.PlasticContent.Mul(qty))
		impact.TotalItems++
		if product.EcoFriendly {
			impact.EcoFriendlyItems++
		}
	}

	if impact.TotalItems > 0 {
		impact.EcoPercentage = float64(impact.EcoFriendlyItems) / float64(impact.TotalItems) * 100
	}
	impact.PotentialGreenPoints = impact.EcoFriendlyItems * ledger.PointsPerEcoItem
	return impact, nil
}

func (s *service) GetPreferences(ctx context.Context, userID uuid.UUID) (*PreferencesDTO, error) {
	pref, err := s.repo.FindPreferences(ctx, userID)
	if err == nil {
		return preferencesFromModel(pref), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load preferences")
	}

	// first read creates the row with defaults
	pref = defaultPreferences(userID)
	if err := s.repo.CreatePreferences(ctx, pref); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create preferences")
	}
	return preferencesFromModel(pref), nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*PreferencesDTO, error) {
	pref, err := s.repo.FindPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load preferences")
		}
		pref = defaultPreferences(userID)
		if err := s.repo.CreatePreferences(ctx, pref); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create preferences")
		}
	}

	if req.PackagingPreference != nil {
		packaging, err := enums.ParsePackagingPreference(*req.PackagingPreference)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown packaging preference").
				WithDetails(map[string]any{"packaging_preference": *req.PackagingPreference})
		}
		pref.PackagingPreference = packaging
	}
	if req.NotifyGreenDeals != nil {
		pref.NotifyGreenDeals = *req.NotifyGreenDeals
	}
	if req.ShowCarbonFootprint != nil {
		pref.ShowCarbonFootprint = *req.ShowCarbonFootprint
	}

	if err := s.repo.SavePreferences(ctx, pref); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save preferences")
	}
	return preferencesFromModel(pref), nil
}

func defaultPreferences(userID uuid.UUID) *models.UserPreference {
	return &models.UserPreference{
		UserID:              userID,
		PackagingPreference: enums.PackagingPreferenceStandard,
		NotifyGreenDeals:    true,
		ShowCarbonFootprint: true,
	}
}
