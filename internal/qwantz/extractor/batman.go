package extractor

import (
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/shape"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

// batmanHeadPixelCount is the exact ink-pixel count of the "Floating
// Batman head" silhouette that recurs across strips as a sight gag (spec
// §4.5 step 4). Any shape of a different size is immediately rejected
// before the signature-pixel check runs.
const batmanHeadPixelCount = 187

// batmanEarTipOffsetsRightFacing and batmanEarTipOffsetsLeftFacing are the (dx, dy)
// offsets, relative to the shape's bounding-box top-left corner, of the
// silhouette's twin ear tips — the one unambiguous landmark that also
// reveals which way the head faces, since the ears are asymmetric.
var (
	batmanEarTipOffsetsRightFacing = []rgeometry.Pixel{{X: 2, Y: 0}, {X: 9, Y: 0}}
	batmanEarTipOffsetsLeftFacing  = []rgeometry.Pixel{{X: 1, Y: 0}, {X: 8, Y: 0}}
)

// tryBatmanHead checks whether the shape at seed is the Batman-head
// template: exactly batmanHeadPixelCount pixels, with one of the two
// signature ear-tip patterns present at the top of its bounding box.
func tryBatmanHead(seed rgeometry.Pixel, image *sparseimage.Image) (ExtraCharacter, bool) {
	pixels := shape.GetShape(seed, image)
	if len(pixels) != batmanHeadPixelCount {
		return ExtraCharacter{}, false
	}
	box := shape.BoundingBox(pixels, 0)

	if hasEarTips(pixels, box, batmanEarTipOffsetsRightFacing) {
		return ExtraCharacter{Name: "Floating Batman head", Box: box, Direction: "right"}, true
	}
	if hasEarTips(pixels, box, batmanEarTipOffsetsLeftFacing) {
		return ExtraCharacter{Name: "Floating Batman head", Box: box, Direction: "left"}, true
	}
	return ExtraCharacter{}, false
}

func hasEarTips(pixels map[rgeometry.Pixel]rgeometry.Color, box rgeometry.Box, offsets []rgeometry.Pixel) bool {
	for _, offset := range offsets {
		p := rgeometry.Pixel{X: box.Left() + offset.X, Y: box.Top() + offset.Y}
		if _, ok := pixels[p]; !ok {
			return false
		}
	}
	return true
}
