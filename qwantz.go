// Package qwantz is the top-level orchestration layer described in
// SPEC_FULL.md §6: it wires the recognition/attribution CORE
// (internal/qwantz/...) into the per-page, per-panel pipeline a caller
// actually invokes. Grounded on original_source/parse_qwantz's main.py
// (parse_qwantz, match_stuff) and parser.py's richer panel loop.
package qwantz

import (
	goimage "image"
	"image/color"
	"image/draw"

	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/debugrender"
	"github.com/janek37/parse-qwantz/internal/qwantz/extractor"
	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/match"
	"github.com/janek37/parse-qwantz/internal/qwantz/panel"
	"github.com/janek37/parse-qwantz/internal/qwantz/prepare"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/script"
	"github.com/janek37/parse-qwantz/internal/qwantz/shape"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

// PanelOutput is one panel's result: its 1-based index (or 0 for the
// footer) and its emitted script lines, or a skip reason when the panel's
// reference sample failed validation (spec §7 PartialTemplate).
type PanelOutput struct {
	Index      int
	Lines      []string
	Skipped    bool
	Overridden bool
}

// Init loads the font registry (spec §2.2), the one process-global,
// read-only table the pipeline does not build at package initialization
// (the hyphenation word set is built when its package is initialized).
// font.Load is sync.Once-guarded, so Init is idempotent and cheap to call
// more than once (e.g. once per worker in a pool, spec §5).
func Init() error {
	return font.Load()
}

// ParsePage runs the full pipeline over one already-loaded, already-masked
// page image (as returned by internal/qwantz/prepare.Load), producing one
// PanelOutput per panel in panel.Panels plus the footer. goodPanels marks,
// by 1-based index, which panels passed template validation; invalid ones
// are skipped with Skipped=true rather than fed to the recognizer (spec §7
// PartialTemplate). overrides, if non-nil, is consulted per panel by its
// string index ("1".."6", "footer") before the recognition pipeline runs
// at all (spec §6 "Persisted state").
func ParsePage(img goimage.Image, goodPanels map[int]bool, overrides map[string][]string) ([]PanelOutput, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	var outputs []PanelOutput
	askProfessorScience := false

	for i, rect := range panel.Panels {
		index := i + 1
		if goodPanels != nil && !goodPanels[index] {
			outputs = append(outputs, PanelOutput{Index: index, Skipped: true})
			continue
		}
		if overrides != nil {
			if lines, ok := overridesFor(overrides, index); ok {
				outputs = append(outputs, PanelOutput{Index: index, Lines: lines, Overridden: true})
				continue
			}
		}

		panelImg := crop(img, rect.X, rect.Y, rect.Width, rect.Height)
		trimTop := false
		if index == 1 {
			askProfessorScience = prepare.IsAskProfessorScience(panelImg)
			trimTop = askProfessorScience
		}
		sparse := sparseimage.FromImage(panelImg, trimTop)
		lines := runPanel(sparse, panel.Characters[i], index == 1 && askProfessorScience)
		outputs = append(outputs, PanelOutput{Index: index, Lines: lines})
	}

	footerOutput := PanelOutput{Index: 0}
	if overrides != nil {
		if lines, ok := overrides["footer"]; ok {
			footerOutput.Lines = lines
			footerOutput.Overridden = true
		}
	}
	outputs = append(outputs, footerOutput)

	return outputs, nil
}

func overridesFor(overrides map[string][]string, index int) ([]string, bool) {
	lines, ok := overrides[panelKey(index)]
	return lines, ok
}

func panelKey(index int) string {
	return string(rune('0' + index))
}

// panelRun holds everything one panel's pipeline produced, enough both to
// emit the final script lines and, for a caller that wants it, to drive
// internal/qwantz/debugrender's overlay.
type panelRun struct {
	result          extractor.Result
	blocks          []block.TextBlock
	unmatchedLines  []shape.DetectedLine
	unmatchedBlocks []block.TextBlock
	attributions    []script.Attribution
}

// runPanelPipeline executes stages 2-10 of spec §2 over one panel's sparse
// pixel set: extraction, block assembly, line/block/thought matching. The
// caller decides whether to render script lines, a debug overlay, or both
// from the returned panelRun.
func runPanelPipeline(image *sparseimage.Image, characters []*match.Character) panelRun {
	result := extractor.Extract(image, font.All())
	if result.Aborted {
		common.Log.Warning("Panel extraction aborted after too many unmatched shapes")
	}

	rows := block.GroupRows(result.TextLines)
	blocks := block.BuildBlocks(rows, image)

	lineMatches, unmatchedLines := match.MatchLines(result.Lines, blocks, characters, image)
	blockMatches, unmatchedBlocks := match.MatchBlocks(lineMatches, blocks)

	var thoughtBoxes []rgeometry.Box
	for _, t := range result.Thoughts {
		thoughtBoxes = append(thoughtBoxes, t.Box)
	}
	thinkers := thinkingCharacters(characters)
	thoughtMatches := match.MatchThought(thoughtBoxes, unmatchedBlocks, thinkers)
	if len(thoughtBoxes) > 0 && len(thoughtMatches) == 0 {
		common.Log.Warning("Detected thought bubbles, but no thought text")
	}

	// MatchAboveOrBelow (spec §4.8's final fallback) only ever considers
	// blocks that neither got a speaker nor were claimed by a thought
	// bubble, mirroring main.py's match_stuff ordering (block matches,
	// then thought matches, then the above/below fallback over whatever
	// is left).
	var stillUnmatched []block.TextBlock
	for i := range unmatchedBlocks {
		if _, ok := thoughtMatches[&unmatchedBlocks[i]]; !ok {
			stillUnmatched = append(stillUnmatched, unmatchedBlocks[i])
		}
	}
	charMatches := make(map[*block.TextBlock][]*match.Character, len(blockMatches)+len(stillUnmatched))
	for i := range blockMatches {
		charMatches[&blockMatches[i].Block] = blockMatches[i].Characters
	}
	match.MatchAboveOrBelow(stillUnmatched, charMatches)

	var attributions []script.Attribution
	for _, bm := range blockMatches {
		attributions = append(attributions, script.Attribution{Block: bm.Block, Characters: bm.Characters})
	}
	var neverMatched []block.TextBlock
	for i := range unmatchedBlocks {
		b := unmatchedBlocks[i]
		if thinker, ok := thoughtMatches[&unmatchedBlocks[i]]; ok {
			attributions = append(attributions, script.Attribution{Block: b, Thought: thinker})
		}
	}
	for i := range stillUnmatched {
		chars := charMatches[&stillUnmatched[i]]
		attributions = append(attributions, script.Attribution{Block: stillUnmatched[i], Characters: chars})
		if len(chars) == 0 {
			neverMatched = append(neverMatched, stillUnmatched[i])
		}
	}

	return panelRun{
		result:          result,
		blocks:          blocks,
		unmatchedLines:  unmatchedLines,
		unmatchedBlocks: neverMatched,
		attributions:    attributions,
	}
}

// runPanel is the non-debug entry point: just the final script lines.
func runPanel(image *sparseimage.Image, characters []*match.Character, askProfessorScience bool) []string {
	run := runPanelPipeline(image, characters)
	return script.GetScriptLines(run.attributions, askProfessorScience)
}

// RunPanelDebug runs the same pipeline as ParsePage's per-panel loop but
// additionally renders the debug overlay handle_debug produces (spec §6
// "CLI front end ... -debug wiring internal/qwantz/debugrender"), for a
// caller (cmd/parse-qwantz -debug) that wants to see why a panel parsed
// the way it did. panelImg is the already-cropped, already-masked panel
// raster the overlay is drawn on top of.
func RunPanelDebug(panelImg goimage.Image, characters []*match.Character, askProfessorScience bool) ([]string, draw.Image) {
	if err := Init(); err != nil {
		return nil, nil
	}
	image := sparseimage.FromImage(panelImg, false)
	run := runPanelPipeline(image, characters)
	lines := script.GetScriptLines(run.attributions, askProfessorScience)

	var unmatchedShapes [][]rgeometry.Pixel
	for _, s := range run.result.UnmatchedShapes {
		unmatchedShapes = append(unmatchedShapes, s.Pixels)
	}
	var unmatchedLines []debugrender.Line
	for _, l := range run.unmatchedLines {
		unmatchedLines = append(unmatchedLines, debugrender.NewLine(l.Line.End1, l.Line.End2))
	}
	overlay := debugrender.Overlay{
		UnmatchedShapes: unmatchedShapes,
		UnmatchedLines:  unmatchedLines,
		Blocks:          run.blocks,
		Characters:      characters,
	}
	return lines, debugrender.Draw(panelImg, overlay)
}

func thinkingCharacters(characters []*match.Character) []*match.Character {
	var out []*match.Character
	for _, c := range characters {
		if c.CanThink {
			out = append(out, c)
		}
	}
	return out
}

// crop returns the sub-image of img at (x, y, x+w, y+h) as a fresh RGBA
// image with its own (0,0)-origined bounds, the way Image.crop(box) in
// simple_image.py hands the extractor a panel-local coordinate space.
func crop(img goimage.Image, x, y, w, h int) goimage.Image {
	bounds := img.Bounds()
	out := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			sx, sy := bounds.Min.X+x+dx, bounds.Min.Y+y+dy
			var c color.Color = color.White
			if sx < bounds.Max.X && sy < bounds.Max.Y {
				c = img.At(sx, sy)
			}
			out.Set(dx, dy, c)
		}
	}
	return out
}
