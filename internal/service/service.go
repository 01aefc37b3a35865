package service

import (
	"context"
	"fmt"

	"convertforge/app/internal/billing"
	"convertforge/app/internal/client"
	"convertforge/app/internal/domain"
	"convertforge/app/internal/events"
	"convertforge/app/internal/repository"
	"convertforge/app/internal/theme"

	log "github.com/sirupsen/logrus"
)

// Service orchestrates the merchant-facing operations. Every operation is a
// short-lived request/response sequence: there is no shared mutable state
// between invocations, and the remote theme is re-read on every mutation
// because the merchant may be editing it concurrently.
type Service struct {
	catalog        repository.CatalogRepository
	customizations repository.CustomizationRepository
	shops          repository.ShopRepository
	entitlement    billing.EntitlementChecker
	client         client.ThemeClient
	reader         *theme.StructureReader
	installer      *theme.Installer
	replacer       *theme.Replacer
	emitter        events.Emitter
}

func NewService(
	catalog repository.CatalogRepository,
	customizations repository.CustomizationRepository,
	shops repository.ShopRepository,
	entitlement billing.EntitlementChecker,
	themeClient client.ThemeClient,
	reader *theme.StructureReader,
	installer *theme.Installer,
	replacer *theme.Replacer,
	emitter events.Emitter,
) *Service {
	return &Service{
		catalog:        catalog,
		customizations: customizations,
		shops:          shops,
		entitlement:    entitlement,
		client:         themeClient,
		reader:         reader,
		installer:      installer,
		replacer:       replacer,
		emitter:        emitter,
	}
}

// SectionListing is the catalog view for the dashboard: metadata plus a
// short preview extracted from the markup, without shipping the full
// Liquid body to the browser.
type SectionListing struct {
	ID              int64  `json:"id"`
	Category        string `json:"category"`
	VariationNumber int    `json:"variation_number"`
	IsPremium       bool   `json:"is_premium"`
	Slug            string `json:"slug"`
	Preview         string `json:"preview"`
}

// BlockListing is one entry of a template's current layout, in render
// order.
type BlockListing struct {
	BlockID string `json:"block_id"`
	Type    string `json:"type"`
}

// InstallResult reports where a section landed.
type InstallResult struct {
	AssetKey  string           `json:"asset_key"`
	ThemeID   int64            `json:"theme_id"`
	ThemeName string           `json:"theme_name"`
	Placement domain.Placement `json:"placement"`
}

// ReplaceResult reports the outcome of a block replacement.
type ReplaceResult struct {
	AssetKey   string `json:"asset_key"`
	NewBlockID string `json:"new_block_id"`
	ThemeID    int64  `json:"theme_id"`
}

func (s *Service) ListSections(ctx context.Context) ([]SectionListing, error) {
	sections, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]SectionListing, 0, len(sections))
	for _, section := range sections {
		listings = append(listings, SectionListing{
			ID:              section.ID,
			Category:        section.Category,
			VariationNumber: section.VariationNumber,
			IsPremium:       section.IsPremium,
			Slug:            theme.FileSlug(section.Category, section.ID),
			Preview:         theme.Summary(section.LiquidMarkup),
		})
	}

	return listings, nil
}

func (s *Service) GetSection(ctx context.Context, id int64) (domain.CatalogSection, error) {
	return s.catalog.GetByID(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	return s.catalog.GetCategories(ctx)
}

func (s *Service) GetCustomizations(ctx context.Context, shopDomain string) ([]domain.Customization, error) {
	return s.customizations.GetByShop(ctx, shopDomain)
}

// ListTemplateBlocks returns the current layout of one template in render
// order, for the dashboard's "pick a block to replace" view. Callers should
// expect the layout to be stale by the time they act on it; the replace
// path re-verifies against a fresh read.
func (s *Service) ListTemplateBlocks(ctx context.Context, shopDomain, templateKey string) ([]BlockListing, error) {
	shop, err := s.shops.GetByDomain(ctx, shopDomain)
	if err != nil {
		return nil, err
	}

	ref, err := s.client.FindActiveTheme(ctx, shop.Credentials())
	if err != nil {
		return nil, err
	}

	doc, err := s.reader.Read(ctx, shop.Credentials(), ref.ID, templateKey)
	if err != nil {
		return nil, err
	}

	listings := make([]BlockListing, 0, len(doc.Order))
	for _, blockID := range doc.Order {
		entry, ok := doc.Block(blockID)
		if !ok {
			continue
		}
		listings = append(listings, BlockListing{BlockID: blockID, Type: entry.Type})
	}

	return listings, nil
}

// InstallSection uploads a catalog section to the shop's active theme and
// persists the instructed customizations. Premium sections require an
// active subscription. The upload is idempotent per section, so a caller
// retrying after a transient failure cannot produce duplicate files.
func (s *Service) InstallSection(ctx context.Context, shopDomain string, sectionID int64, custom domain.Customizations, placement domain.Placement) (InstallResult, error) {
	shop, section, err := s.authorize(ctx, shopDomain, sectionID)
	if err != nil {
		return InstallResult{}, err
	}

	if placement == "" {
		placement = domain.PlacementAll
	}
	if !placement.Valid() {
		return InstallResult{}, fmt.Errorf("unknown placement %q", placement)
	}

	ref, err := s.client.FindActiveTheme(ctx, shop.Credentials())
	if err != nil {
		return InstallResult{}, err
	}

	assetKey, err := s.installer.Install(ctx, shop.Credentials(), ref.ID, section, custom)
	if err != nil {
		return InstallResult{}, err
	}

	if len(custom) > 0 {
		if err := s.customizations.Save(ctx, shopDomain, sectionID, custom); err != nil {
			// The asset is live; losing the saved blob only degrades the
			// dashboard's "your customizations" view.
			log.Warnf("Installed %q but failed to persist customizations: %v", assetKey, err)
		}
	}

	s.emitter.Emit(ctx, events.Event{
		Kind:       events.KindInstall,
		ShopDomain: shopDomain,
		SectionID:  sectionID,
		AssetKey:   assetKey,
	})

	return InstallResult{
		AssetKey:  assetKey,
		ThemeID:   ref.ID,
		ThemeName: ref.Name,
		Placement: placement,
	}, nil
}

// ReplaceBlock swaps an existing template block for a catalog section. The
// section file is always installed before the document is rewritten — the
// reverse order could commit a reference to a file that does not exist,
// which renders as a broken section on the live storefront. If the install
// succeeds and the replace fails, the leftover file is unreferenced and
// harmless.
func (s *Service) ReplaceBlock(ctx context.Context, shopDomain string, sectionID int64, templateKey, blockID string, custom domain.Customizations) (ReplaceResult, error) {
	shop, section, err := s.authorize(ctx, shopDomain, sectionID)
	if err != nil {
		return ReplaceResult{}, err
	}

	if templateKey == "" {
		templateKey = domain.PlacementHome.TemplateKey()
	}

	ref, err := s.client.FindActiveTheme(ctx, shop.Credentials())
	if err != nil {
		return ReplaceResult{}, err
	}

	assetKey, err := s.installer.Install(ctx, shop.Credentials(), ref.ID, section, custom)
	if err != nil {
		return ReplaceResult{}, err
	}

	newType := theme.FileSlug(section.Category, section.ID)
	newBlockID, err := s.replacer.Replace(ctx, shop.Credentials(), ref.ID, templateKey, blockID, newType)
	if err != nil {
		return ReplaceResult{}, err
	}

	if len(custom) > 0 {
		if err := s.customizations.Save(ctx, shopDomain, sectionID, custom); err != nil {
			log.Warnf("Replaced block but failed to persist customizations: %v", err)
		}
	}

	s.emitter.Emit(ctx, events.Event{
		Kind:       events.KindReplace,
		ShopDomain: shopDomain,
		SectionID:  sectionID,
		AssetKey:   assetKey,
		OldBlockID: blockID,
		NewBlockID: newBlockID,
	})

	return ReplaceResult{
		AssetKey:   assetKey,
		NewBlockID: newBlockID,
		ThemeID:    ref.ID,
	}, nil
}

// authorize resolves the shop and section and enforces the premium gate
// before any remote mutation is attempted.
func (s *Service) authorize(ctx context.Context, shopDomain string, sectionID int64) (domain.Shop, domain.CatalogSection, error) {
	shop, err := s.shops.GetByDomain(ctx, shopDomain)
	if err != nil {
		return domain.Shop{}, domain.CatalogSection{}, err
	}

	section, err := s.catalog.GetByID(ctx, sectionID)
	if err != nil {
		return domain.Shop{}, domain.CatalogSection{}, err
	}

	if section.IsPremium {
		if err := s.entitlement.RequirePremium(ctx, shop); err != nil {
			return domain.Shop{}, domain.CatalogSection{}, err
		}
	}

	return shop, section, nil
}
