package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	t.Run("prefers the first heading", func(t *testing.T) {
		markup := `<section><h2>Limited time offer</h2><p>Body copy here.</p></section>`
		assert.Equal(t, "Limited time offer", Summary(markup))
	})

	t.Run("strips liquid interpolation", func(t *testing.T) {
		markup := `<div>{% if show %}{% endif %}<h2>{{ section.settings.badge }} Flash Sale</h2></div>`
		assert.Equal(t, "Flash Sale", Summary(markup))
	})

	t.Run("falls back to body text without headings", func(t *testing.T) {
		markup := `<div><span>Trusted by 4,000 merchants</span></div>`
		assert.Equal(t, "Trusted by 4,000 merchants", Summary(markup))
	})

	t.Run("long text is truncated", func(t *testing.T) {
		markup := "<p>" + strings.Repeat("conversion ", 40) + "</p>"
		summary := Summary(markup)
		assert.LessOrEqual(t, len(summary), summaryMaxLength+len("…"))
	})

	t.Run("empty markup yields empty summary", func(t *testing.T) {
		assert.Equal(t, "", Summary(""))
	})
}
