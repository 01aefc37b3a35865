package theme

import (
	"context"
	"fmt"

	"convertforge/app/internal/client"
	"convertforge/app/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Installer materializes a catalog section as a live theme asset. The
// upload is naturally idempotent: the asset key is a pure function of the
// catalog section, so re-installing overwrites the same file. Callers may
// retry a failed install from scratch without producing duplicates.
type Installer struct {
	client client.ThemeClient
}

func NewInstaller(client client.ThemeClient) *Installer {
	return &Installer{client: client}
}

// Install uploads the composed Liquid body and returns the asset key it was
// written to. Remote failures are surfaced verbatim; the dominant real-world
// cause is an API credential missing the theme-write scope, and the
// RemoteError's asset key plus status is what an operator needs to see.
func (i *Installer) Install(ctx context.Context, shop domain.ShopCredentials, themeID int64, section domain.CatalogSection, custom domain.Customizations) (string, error) {
	slug := FileSlug(section.Category, section.ID)
	key := SectionAssetKey(slug)

	body, err := BuildLiquid(section, custom)
	if err != nil {
		return "", err
	}

	if err := i.client.WriteAsset(ctx, shop, themeID, key, body); err != nil {
		return "", fmt.Errorf("failed to install section %d: %w", section.ID, err)
	}

	log.Infof("Installed section %d as %q on theme %d for %s", section.ID, key, themeID, shop.Domain)
	return key, nil
}
