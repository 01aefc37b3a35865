package domain

import (
	"encoding/json"
	"fmt"
)

// ThemeRef identifies one theme on the remote platform.
type ThemeRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BlockEntry is one block definition inside a JSON template.
type BlockEntry struct {
	Type     string         `json:"type"`
	Settings map[string]any `json:"settings"`
}

// ThemeDocument is the in-memory model of one JSON template asset.
//
// Blocks are kept as raw JSON so that entries this service does not touch
// round-trip byte-identical. Extra holds every top-level key other than
// "order" and "blocks" (theme templates routinely carry "settings",
// "layout" and similar) so a rewrite never drops fields it does not model.
type ThemeDocument struct {
	Order  []string
	Blocks map[string]json.RawMessage
	Extra  map[string]json.RawMessage
}

// ParseThemeDocument decodes a raw JSON template. A template with no
// "order"/"blocks" yet is a legal empty layout; anything that is not a
// JSON object is malformed and never a candidate for mutation.
func ParseThemeDocument(raw string) (*ThemeDocument, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}

	doc := &ThemeDocument{
		Order:  []string{},
		Blocks: map[string]json.RawMessage{},
		Extra:  map[string]json.RawMessage{},
	}

	for key, value := range top {
		switch key {
		case "order":
			if err := json.Unmarshal(value, &doc.Order); err != nil {
				return nil, fmt.Errorf("%w: invalid order: %v", ErrMalformedTemplate, err)
			}
		case "blocks":
			if err := json.Unmarshal(value, &doc.Blocks); err != nil {
				return nil, fmt.Errorf("%w: invalid blocks: %v", ErrMalformedTemplate, err)
			}
		default:
			doc.Extra[key] = value
		}
	}

	return doc, nil
}

// Encode serializes the document back to the wire shape, including every
// unrecognized top-level key captured at parse time.
func (d *ThemeDocument) Encode() (string, error) {
	top := make(map[string]json.RawMessage, len(d.Extra)+2)
	for key, value := range d.Extra {
		top[key] = value
	}

	order, err := json.Marshal(d.Order)
	if err != nil {
		return "", fmt.Errorf("failed to encode order: %w", err)
	}
	top["order"] = order

	blocks, err := json.Marshal(d.Blocks)
	if err != nil {
		return "", fmt.Errorf("failed to encode blocks: %w", err)
	}
	top["blocks"] = blocks

	out, err := json.Marshal(top)
	if err != nil {
		return "", fmt.Errorf("failed to encode template: %w", err)
	}
	return string(out), nil
}

// Block decodes the entry stored under blockID.
func (d *ThemeDocument) Block(blockID string) (BlockEntry, bool) {
	raw, ok := d.Blocks[blockID]
	if !ok {
		return BlockEntry{}, false
	}
	var entry BlockEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return BlockEntry{}, false
	}
	return entry, true
}

// HasBlock reports whether blockID exists in the block map.
func (d *ThemeDocument) HasBlock(blockID string) bool {
	_, ok := d.Blocks[blockID]
	return ok
}
