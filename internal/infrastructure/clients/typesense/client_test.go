package typesense

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessSchema(t *testing.T) {
	schema := BusinessSchema()

	assert.Equal(t, BusinessesCollection, schema.Name)
	assert.Equal(t, "rating", *schema.DefaultSortingField)

	facets := map[string]bool{}
	for _, f := range schema.Fields {
		if f.Facet != nil && *f.Facet {
			facets[f.Name] = true
		}
	}
	assert.Equal(t, map[string]bool{"category": true, "city": true, "rating": true}, facets)
}
