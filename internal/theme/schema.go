package theme

import (
	"encoding/json"
	"fmt"

	"convertforge/app/internal/domain"
)

// composeSchema renders the settings-schema JSON embedded in an installed
// section. The authored schema is `{name, settings: [...], presets: [...]}`;
// instructed customizations override the `default` of the matching setting
// id and nothing else. The output must stay exactly in the shape the theme
// renderer parses at template-compile time, so no extra keys are added.
func composeSchema(section domain.CatalogSection, custom domain.Customizations) (string, error) {
	var schema map[string]json.RawMessage
	if err := json.Unmarshal([]byte(section.SchemaJSON), &schema); err != nil {
		return "", fmt.Errorf("section %d has invalid schema json: %w", section.ID, err)
	}

	if rawSettings, ok := schema["settings"]; ok && len(custom) > 0 {
		var settings []map[string]any
		if err := json.Unmarshal(rawSettings, &settings); err != nil {
			return "", fmt.Errorf("section %d has invalid schema settings: %w", section.ID, err)
		}

		for _, setting := range settings {
			id, ok := setting["id"].(string)
			if !ok {
				continue
			}
			if value, overridden := custom[id]; overridden {
				setting["default"] = value
			}
		}

		merged, err := json.Marshal(settings)
		if err != nil {
			return "", fmt.Errorf("failed to encode schema settings: %w", err)
		}
		schema["settings"] = merged
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode schema: %w", err)
	}
	return string(out), nil
}

// BuildLiquid composes the full asset body for a catalog section: the
// authored markup followed by the fenced schema block.
func BuildLiquid(section domain.CatalogSection, custom domain.Customizations) (string, error) {
	schema, err := composeSchema(section, custom)
	if err != nil {
		return "", err
	}
	return section.LiquidMarkup + "\n\n{% schema %}\n" + schema + "\n{% endschema %}\n", nil
}
