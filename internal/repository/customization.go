package repository

import (
	"context"
	"fmt"

	"convertforge/app/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomizationRepository persists per-shop settings blobs. This is an
// opaque key-value upsert; nothing in the install/replace correctness story
// depends on it.
type CustomizationRepository interface {
	Save(ctx context.Context, shopDomain string, sectionID int64, settings domain.Customizations) error
	GetByShop(ctx context.Context, shopDomain string) ([]domain.Customization, error)
}

type customizationRepository struct {
	db *pgxpool.Pool
}

func NewCustomizationRepository(db *pgxpool.Pool) CustomizationRepository {
	return &customizationRepository{
		db: db,
	}
}

func (r *customizationRepository) Save(ctx context.Context, shopDomain string, sectionID int64, settings domain.Customizations) error {
	query := `
	INSERT INTO customizations (shop_domain, section_id, settings)
	VALUES ($1, $2, $3)
	ON CONFLICT (shop_domain, section_id)
	DO UPDATE SET settings = $3, updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, shopDomain, sectionID, settings)
	if err != nil {
		return fmt.Errorf("failed to save customization for %s/%d: %w", shopDomain, sectionID, err)
	}

	return nil
}

func (r *customizationRepository) GetByShop(ctx context.Context, shopDomain string) ([]domain.Customization, error) {
	query := `
	SELECT shop_domain, section_id, settings
	FROM customizations
	WHERE shop_domain = $1
	ORDER BY section_id`

	rows, err := r.db.Query(ctx, query, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to list customizations for %s: %w", shopDomain, err)
	}
	defer rows.Close()

	customizations := make([]domain.Customization, 0)
	for rows.Next() {
		var c domain.Customization
		if err := rows.Scan(&c.ShopDomain, &c.SectionID, &c.Settings); err != nil {
			return nil, fmt.Errorf("failed to scan customization: %w", err)
		}
		customizations = append(customizations, c)
	}

	return customizations, rows.Err()
}
