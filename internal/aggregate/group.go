// Package aggregate groups records by category label for the region
// dashboards.
package aggregate

import (
	"sort"
	"strings"

	"github.com/kpata360-rgb/workisready-backend1/internal/location"
)

// Bucket is one category with its record count and a bounded sample.
type Bucket[T any] struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Samples  []T    `json:"samples"`
}

// RegionBucket nests category buckets under one region.
type RegionBucket[T any] struct {
	Region     string      `json:"region"`
	Count      int         `json:"count"`
	Categories []Bucket[T] `json:"categories"`
}

// ByCategory counts every item once for each distinct label it carries.
// Labels are matched case-insensitively; the first spelling seen is the
// one reported. Buckets are ordered by count, then label.
func ByCategory[T any](items []T, labelsOf func(T) []string, sampleCap int) []Bucket[T] {
	if sampleCap < 0 {
		sampleCap = 0
	}

	index := make(map[string]int)
	var buckets []Bucket[T]

	for _, item := range items {
		seen := make(map[string]struct{})
		for _, label := range labelsOf(item) {
			key := location.NormalizeKey(label)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			i, ok := index[key]
			if !ok {
				i = len(buckets)
				index[key] = i
				buckets = append(buckets, Bucket[T]{Category: strings.TrimSpace(label), Samples: []T{}})
			}
			buckets[i].Count++
			if len(buckets[i].Samples) < sampleCap {
				buckets[i].Samples = append(buckets[i].Samples, item)
			}
		}
	}

	sort.SliceStable(buckets, func(a, b int) bool {
		if buckets[a].Count != buckets[b].Count {
			return buckets[a].Count > buckets[b].Count
		}
		return strings.ToLower(buckets[a].Category) < strings.ToLower(buckets[b].Category)
	})
	if buckets == nil {
		buckets = []Bucket[T]{}
	}
	return buckets
}

// ByRegionAndCategory splits items by normalized region and runs
// ByCategory inside each region. Regions are ordered by item count.
func ByRegionAndCategory[T any](items []T, regionOf func(T) string, labelsOf func(T) []string, sampleCap int) []RegionBucket[T] {
	index := make(map[string]int)
	var names []string
	var groups [][]T

	for _, item := range items {
		region := strings.TrimSpace(regionOf(item))
		key := location.NormalizeRegion(region)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			names = append(names, region)
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], item)
	}

	out := make([]RegionBucket[T], 0, len(groups))
	for i, group := range groups {
		out = append(out, RegionBucket[T]{
			Region:     names[i],
			Count:      len(group),
			Categories: ByCategory(group, labelsOf, sampleCap),
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return strings.ToLower(out[a].Region) < strings.ToLower(out[b].Region)
	})
	return out
}
