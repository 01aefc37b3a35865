package theme

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSlug(t *testing.T) {
	t.Run("deterministic for equal inputs", func(t *testing.T) {
		first := FileSlug("Hero Sections", 42)
		second := FileSlug("Hero Sections", 42)
		assert.Equal(t, first, second)
	})

	t.Run("known shape", func(t *testing.T) {
		assert.Equal(t, "cf-hero-sections-42", FileSlug("Hero Sections", 42))
		assert.Equal(t, "cf-testimonials-7", FileSlug("Testimonials", 7))
	})

	t.Run("distinct ids in the same category yield distinct slugs", func(t *testing.T) {
		assert.NotEqual(t, FileSlug("Hero Sections", 1), FileSlug("Hero Sections", 2))
	})

	t.Run("strips punctuation and case", func(t *testing.T) {
		assert.Equal(t, "cf-faq-accordions-3", FileSlug("FAQ & Accordions!", 3))
		assert.Equal(t, "cf-call-to-action-9", FileSlug("  Call-To-Action  ", 9))
	})

	t.Run("empty category still produces a namespaced slug", func(t *testing.T) {
		assert.Equal(t, "cf-section-5", FileSlug("", 5))
		assert.Equal(t, "cf-section-5", FileSlug("!!!", 5))
	})

	t.Run("asset key convention", func(t *testing.T) {
		assert.Equal(t, "sections/cf-hero-sections-42.liquid", SectionAssetKey(FileSlug("Hero Sections", 42)))
	})
}

func TestGenerateBlockID(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		id, err := GenerateBlockID(nil)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(id, blockIDPrefix))
		assert.Len(t, id, len(blockIDPrefix)+blockIDRandomLength)
		for _, r := range strings.TrimPrefix(id, blockIDPrefix) {
			assert.Contains(t, blockIDAlphabet, string(r))
		}
	})

	t.Run("never returns an existing key", func(t *testing.T) {
		existing := map[string]json.RawMessage{
			"b1":                  nil,
			"cf_abcabcabcabcabca": nil,
		}
		for i := 0; i < 100; i++ {
			id, err := GenerateBlockID(existing)
			require.NoError(t, err)
			assert.NotContains(t, existing, id)
		}
	})

	t.Run("no collisions across a growing key set", func(t *testing.T) {
		existing := make(map[string]json.RawMessage, 10000)
		for i := 0; i < 10000; i++ {
			id, err := GenerateBlockID(existing)
			require.NoError(t, err)

			_, seen := existing[id]
			require.False(t, seen, "draw %d collided: %s", i, id)
			existing[id] = nil
		}
	})
}
