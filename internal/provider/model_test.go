package provider

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func paths(n int, prefix string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d.png", prefix, i)
	}
	return out
}

func TestAppendSampleWork_UnderCap(t *testing.T) {
	now := time.Now()
	gallery, dropped := AppendSampleWork(nil, paths(3, "a"), now)
	assert.Len(t, gallery, 3)
	assert.Empty(t, dropped)
	assert.Equal(t, "a0.png", gallery[0].Path)
	assert.Equal(t, now, gallery[2].AddedAt)
	assert.NotEqual(t, gallery[0].ID, gallery[1].ID)
}

func TestAppendSampleWork_DropsOldestFirst(t *testing.T) {
	existing, _ := AppendSampleWork(nil, paths(8, "old"), time.Now())
	gallery, dropped := AppendSampleWork(existing, paths(5, "new"), time.Now())

	assert.Len(t, gallery, MaxSampleWork)
	assert.Equal(t, []string{"old0.png", "old1.png", "old2.png"}, dropped)
	assert.Equal(t, "old3.png", gallery[0].Path)
	assert.Equal(t, "new4.png", gallery[MaxSampleWork-1].Path)
}

func TestSetCategories_Dedupes(t *testing.T) {
	var p Provider
	p.SetCategories([]string{"Plumbing", "plumbing ", "", "Leak Repair"})
	assert.Equal(t, []string{"Plumbing", "Leak Repair"}, p.Labels())
	assert.Equal(t, "leak repair", p.Categories[1].NameKey)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.33, RoundRating(13.0/3.0))
	assert.Equal(t, 4.67, RoundRating(14.0/3.0))
	assert.Equal(t, 5.0, RoundRating(5))
}
