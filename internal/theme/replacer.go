package theme

import (
	"context"
	"encoding/json"
	"fmt"

	"convertforge/app/internal/client"
	"convertforge/app/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Replacer swaps one block of a JSON template for a freshly installed
// section. This is the one read-modify-write cycle in the system with real
// corruption risk, so its contract is strict: exactly one entry of the
// fetched document changes identity, everything else round-trips untouched,
// and the rewrite is committed as a single whole-document PUT.
//
// The remote offers no isolation. A merchant edit landing between our read
// and our write is lost (last write wins); that is the platform's only
// consistency model and the blast radius is confined to one template body,
// never a half-written document.
type Replacer struct {
	client client.ThemeClient
	reader *StructureReader
}

func NewReplacer(client client.ThemeClient, reader *StructureReader) *Replacer {
	return &Replacer{client: client, reader: reader}
}

// Replace rewrites the block keyed oldBlockID to reference newType, which
// must name a section file already uploaded to the theme — the document
// must never point at a file that does not exist. It returns the id the
// block was re-keyed under.
//
// If the final write fails, no remote state has changed: the mutation
// happened only in memory and the whole operation is retryable from
// scratch.
func (r *Replacer) Replace(ctx context.Context, shop domain.ShopCredentials, themeID int64, templateKey, oldBlockID, newType string) (string, error) {
	doc, err := r.reader.Read(ctx, shop, themeID, templateKey)
	if err != nil {
		return "", err
	}

	if !doc.HasBlock(oldBlockID) {
		return "", fmt.Errorf("%w: %s in %s", domain.ErrBlockNotFound, oldBlockID, templateKey)
	}

	newBlockID, err := GenerateBlockID(doc.Blocks)
	if err != nil {
		return "", err
	}

	// Settings start empty on purpose: the new section's schema is not
	// the old block's schema, and the renderer fills unset settings from
	// the schema's own defaults.
	entry, err := json.Marshal(domain.BlockEntry{Type: newType, Settings: map[string]any{}})
	if err != nil {
		return "", fmt.Errorf("failed to encode block entry: %w", err)
	}

	blocks := make(map[string]json.RawMessage, len(doc.Blocks))
	for id, raw := range doc.Blocks {
		if id == oldBlockID {
			continue
		}
		blocks[id] = raw
	}
	blocks[newBlockID] = entry
	doc.Blocks = blocks

	for i, id := range doc.Order {
		if id == oldBlockID {
			doc.Order[i] = newBlockID
		}
	}

	encoded, err := doc.Encode()
	if err != nil {
		return "", err
	}

	if err := r.client.WriteAsset(ctx, shop, themeID, templateKey, encoded); err != nil {
		return "", fmt.Errorf("replacement of %s not applied: %w", oldBlockID, err)
	}

	log.Infof("Replaced block %s with %s (type %q) in %s on theme %d", oldBlockID, newBlockID, newType, templateKey, themeID)
	return newBlockID, nil
}
