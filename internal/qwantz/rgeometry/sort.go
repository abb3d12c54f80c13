package rgeometry

import "sort"

func sortPixels(pixels []Pixel) {
	sort.Slice(pixels, func(i, j int) bool {
		return pixels[i].Less(pixels[j])
	})
}
