package sustainability

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
)

// Repository answers the aggregate queries behind the dashboard and
// leaderboard. Ties on green points break by user id ascending, which keeps
// ranks stable between requests.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sustainability repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Rank returns the user's 1-based leaderboard position.
func (r *Repository) Rank(ctx context.Context, userID uuid.UUID) (int64, error) {
	var points int
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("green_points", &points).Error; err != nil {
		return 0, err
	}

	var ahead int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("green_points > ? OR (green_points = ? AND id < ?)", points, points, userID).
		Count(&ahead).Error; err != nil {
		return 0, err
	}
	return ahead + 1, nil
}

// TopUsers returns the first limit users ordered by points desc, id asc.
func (r *Repository) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).
		Order("green_points DESC, id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountUsers returns the total user population.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// EcoProductCount counts eco-flagged lines across the user's orders.
func (r *Repository) EcoProductCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.user_id = ? AND products.eco_friendly = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindPreferences loads the user's preference row.
func (r *Repository) FindPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error) {
	var pref models.UserPreference
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// CreatePreferences inserts a preference row.
func (r *Repository) CreatePreferences(ctx context.Context, pref *models.UserPreference) error {
	return r.db.WithContext(ctx).Create(pref).Error
}

// SavePreferences persists the full preference row.
func (r *Repository) SavePreferences(ctx context.Context, pref *models.UserPreference) error {
	return r.db.WithContext(ctx).Save(pref).Error
}
