// Package tagcloud scales tag usage counts for display.
package tagcloud

import (
	"fmt"
	"math"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

const (
	minSize, maxSize             = 0.75, 2.5
	minHue, maxHue               = 180.0, 260.0
	minSaturation, maxSaturation = 40.0, 60.0
	// Lightness runs backwards: heavier tags are darker.
	maxLightness, minLightness = 70.0, 35.0
)

// Weigh maps counts onto a log scale between the least and most used tag.
// When every tag has the same count all of them sit at the midpoint.
// Input order is preserved.
func Weigh(counts []domain.TagCount) []domain.TagWeight {
	if len(counts) == 0 {
		return []domain.TagWeight{}
	}

	lo, hi := counts[0].Count, counts[0].Count
	for _, c := range counts[1:] {
		lo = min(lo, c.Count)
		hi = max(hi, c.Count)
	}

	out := make([]domain.TagWeight, 0, len(counts))
	for _, c := range counts {
		r := ratio(c.Count, lo, hi)
		size := lerp(minSize, maxSize, r)
		out = append(out, domain.TagWeight{
			Name:     c.Name,
			Count:    c.Count,
			Ratio:    r,
			Size:     size,
			FontSize: fmt.Sprintf("%.2frem", size),
			Color: fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)",
				lerp(minHue, maxHue, r),
				lerp(minSaturation, maxSaturation, r),
				lerp(maxLightness, minLightness, r)),
		})
	}
	return out
}

func ratio(count, lo, hi int64) float64 {
	if lo == hi {
		return 0.5
	}
	// counts come from COUNT(*) over existing links, so they are at least 1
	l, h := math.Log(float64(max(lo, 1))), math.Log(float64(max(hi, 1)))
	if h == l {
		return 0.5
	}
	return (math.Log(float64(max(count, 1))) - l) / (h - l)
}

func lerp(from, to, r float64) float64 {
	return from + (to-from)*r
}
