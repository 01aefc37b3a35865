package repository

import (
	"context"
	"errors"
	"fmt"

	"convertforge/app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ShopRepository resolves an installed shop's API credential and plan. The
// OAuth handshake that writes these rows lives outside this service.
type ShopRepository interface {
	GetByDomain(ctx context.Context, shopDomain string) (domain.Shop, error)
}

type shopRepository struct {
	db *pgxpool.Pool
}

func NewShopRepository(db *pgxpool.Pool) ShopRepository {
	return &shopRepository{
		db: db,
	}
}

func (r *shopRepository) GetByDomain(ctx context.Context, shopDomain string) (domain.Shop, error) {
	query := `
	SELECT domain, access_token, plan
	FROM shops
	WHERE domain = $1`

	var shop domain.Shop
	err := r.db.QueryRow(ctx, query, shopDomain).Scan(&shop.Domain, &shop.AccessToken, &shop.Plan)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Shop{}, fmt.Errorf("%w: %s", domain.ErrShopNotFound, shopDomain)
	}
	if err != nil {
		return domain.Shop{}, fmt.Errorf("failed to load shop %s: %w", shopDomain, err)
	}

	return shop, nil
}
