package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name   string
	region string
	labels []string
}

func labels(i item) []string { return i.labels }
func region(i item) string   { return i.region }

func TestByCategory_CountsAndOrder(t *testing.T) {
	items := []item{
		{name: "a", labels: []string{"Plumbing", "Electrical"}},
		{name: "b", labels: []string{"plumbing"}},
		{name: "c", labels: []string{"Carpentry", "Plumbing", "PLUMBING"}},
		{name: "d", labels: []string{"Electrical"}},
		{name: "e", labels: []string{"Appliance Repair"}},
	}

	got := ByCategory(items, labels, 2)
	require.Len(t, got, 4)

	assert.Equal(t, "Plumbing", got[0].Category)
	assert.Equal(t, 3, got[0].Count)
	assert.Len(t, got[0].Samples, 2)
	assert.Equal(t, "a", got[0].Samples[0].name)

	assert.Equal(t, "Electrical", got[1].Category)
	assert.Equal(t, 2, got[1].Count)

	// Ties on count fall back to label order.
	assert.Equal(t, "Appliance Repair", got[2].Category)
	assert.Equal(t, "Carpentry", got[3].Category)
}

func TestByCategory_ZeroCapAndEmpty(t *testing.T) {
	got := ByCategory([]item{{labels: []string{"X", " "}}}, labels, 0)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Samples)
	assert.NotNil(t, got[0].Samples)

	assert.Empty(t, ByCategory(nil, labels, 5))
	assert.NotNil(t, ByCategory(nil, labels, 5))
}

func TestByRegionAndCategory(t *testing.T) {
	items := []item{
		{region: "Ashanti", labels: []string{"Plumbing"}},
		{region: "ashanti region", labels: []string{"Plumbing"}},
		{region: "Volta", labels: []string{"Tailoring"}},
		{region: "", labels: []string{"Ignored"}},
	}

	got := ByRegionAndCategory(items, region, labels, 1)
	require.Len(t, got, 2)
	assert.Equal(t, "Ashanti", got[0].Region)
	assert.Equal(t, 2, got[0].Count)
	require.Len(t, got[0].Categories, 1)
	assert.Equal(t, 2, got[0].Categories[0].Count)
	assert.Equal(t, "Volta", got[1].Region)
}
