package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlacement(t *testing.T) {
	for _, placement := range Placements {
		assert.True(t, placement.Valid(), placement.String())
		assert.NotEmpty(t, placement.TemplateKey())
	}

	assert.False(t, Placement("sidebar").Valid())
	assert.Equal(t, "templates/index.json", PlacementHome.TemplateKey())
	assert.Equal(t, "templates/product.json", PlacementProduct.TemplateKey())
	assert.Equal(t, "templates/index.json", PlacementAll.TemplateKey())
}
