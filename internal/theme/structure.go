package theme

import (
	"context"
	"fmt"

	"convertforge/app/internal/client"
	"convertforge/app/internal/domain"

	log "github.com/sirupsen/logrus"
)

// StructureReader produces a ThemeDocument from a named JSON template
// asset. It never writes, and it never caches: the merchant may be editing
// the theme concurrently, so every operation starts from a fresh read.
type StructureReader struct {
	client client.ThemeClient
}

func NewStructureReader(client client.ThemeClient) *StructureReader {
	return &StructureReader{client: client}
}

func (r *StructureReader) Read(ctx context.Context, shop domain.ShopCredentials, themeID int64, templateKey string) (*domain.ThemeDocument, error) {
	raw, err := r.client.ReadAsset(ctx, shop, themeID, templateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template %q: %w", templateKey, err)
	}

	doc, err := domain.ParseThemeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", templateKey, err)
	}

	log.Debugf("Read template %q: %d blocks, %d ordered", templateKey, len(doc.Blocks), len(doc.Order))
	return doc, nil
}
