package sustainability

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
)

// DashboardDTO aggregates the caller's sustainability standing.
type DashboardDTO struct {
	GreenPoints       int             `json:"green_points"`
	TotalCO2Saved     decimal.Decimal `json:"total_co2_saved"`
	TotalPlasticSaved decimal.Decimal `json:"total_plastic_saved"`
	EcoProductCount   int64           `json:"eco_product_count"`
	Rank              int64           `json:"rank"`
	TotalUsers        int64           `json:"total_users"`
}

// LeaderboardEntry is one public leaderboard row.
type LeaderboardEntry struct {
	Rank        int             `json:"rank"`
	Name        string          `json:"name"`
	GreenPoints int             `json:"green_points"`
	CO2Saved    decimal.Decimal `json:"co2_saved"`
}

// LeaderboardDTO is the public top-N ranking.
type LeaderboardDTO struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// CartImpactDTO projects what checking out the current cart would mean.
type CartImpactDTO struct {
	TotalCO2             decimal.Decimal `json:"total_co2"`
	TotalPlastic         decimal.Decimal `json:"total_plastic"`
	EcoFriendlyItems     int             `json:"eco_friendly_items"`
	TotalItems           int             `json:"total_items"`
	EcoPercentage        float64         `json:"eco_percentage"`
	PotentialGreenPoints int             `json:"potential_green_points"`
}

// PreferencesDTO is the transport shape for sustainability settings.
type PreferencesDTO struct {
	UserID              uuid.UUID                 `json:"user_id"`
	PackagingPreference enums.PackagingPreference `json:"packaging_preference"`
	NotifyGreenDeals    bool                      `json:"notify_green_deals"`
	ShowCarbonFootprint bool                      `json:"show_carbon_footprint"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

// UpdatePreferencesRequest carries partial preference updates.
type UpdatePreferencesRequest struct {
	PackagingPreference *string `json:"packaging_preference,omitempty"`
	NotifyGreenDeals    *bool   `json:"notify_green_deals,omitempty"`
	ShowCarbonFootprint *bool   `json:"show_carbon_footprint,omitempty"`
}

func preferencesFromModel(pref *models.UserPreference) *PreferencesDTO {
	if pref == nil {
		return nil
	}
	return &PreferencesDTO{
		UserID:              pref.UserID,
		PackagingPreference: pref.PackagingPreference,
		NotifyGreenDeals:    pref.NotifyGreenDeals,
		ShowCarbonFootprint: pref.ShowCarbonFootprint,
		UpdatedAt:           pref.UpdatedAt,
	}
}
