package repository

import (
	"context"
	"errors"
	"fmt"

	"convertforge/app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository reads the seeded section catalog. Rows are written only
// by the administrative seeding process, never by this service.
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (domain.CatalogSection, error)
	GetAll(ctx context.Context) ([]domain.CatalogSection, error)
	GetCategories(ctx context.Context) ([]domain.CategorySummary, error)
}

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

func (r *catalogRepository) GetByID(ctx context.Context, id int64) (domain.CatalogSection, error) {
	query := `
	SELECT id, category, variation_number, liquid_markup, schema_json, is_premium
	FROM catalog_sections
	WHERE id = $1`

	var section domain.CatalogSection
	err := r.db.QueryRow(ctx, query, id).Scan(
		&section.ID,
		&section.Category,
		&section.VariationNumber,
		&section.LiquidMarkup,
		&section.SchemaJSON,
		&section.IsPremium,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CatalogSection{}, fmt.Errorf("%w: %d", domain.ErrSectionNotFound, id)
	}
	if err != nil {
		return domain.CatalogSection{}, fmt.Errorf("failed to load section %d: %w", id, err)
	}

	return section, nil
}

func (r *catalogRepository) GetAll(ctx context.Context) ([]domain.CatalogSection, error) {
	query := `
	SELECT id, category, variation_number, liquid_markup, schema_json, is_premium
	FROM catalog_sections
	ORDER BY category, variation_number`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	sections := make([]domain.CatalogSection, 0)
	for rows.Next() {
		var section domain.CatalogSection
		if err := rows.Scan(
			&section.ID,
			&section.Category,
			&section.VariationNumber,
			&section.LiquidMarkup,
			&section.SchemaJSON,
			&section.IsPremium,
		); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, section)
	}

	return sections, rows.Err()
}

func (r *catalogRepository) GetCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	query := `
	SELECT category, COUNT(*), COALESCE(AVG(conversion_score), 0)
	FROM catalog_sections
	GROUP BY category
	ORDER BY category`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.CategorySummary, 0)
	for rows.Next() {
		var summary domain.CategorySummary
		if err := rows.Scan(&summary.Category, &summary.Count, &summary.AvgScore); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, summary)
	}

	return categories, rows.Err()
}
