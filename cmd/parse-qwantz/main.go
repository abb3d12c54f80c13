// Command parse-qwantz is the thin CLI front end described in SPEC_FULL.md
// §8: it walks the input paths given on the command line, runs each page
// through the qwantz library, and prints "Panel N:" followed by that
// panel's script lines. Grounded on original_source/parse_qwantz's main.py
// entry point, restructured around the flag package and a worker pool the
// way examples/pdf/pdf_split.go and friends front unidoc's library code.
package main

import (
	"bytes"
	"flag"
	"fmt"
	goimage "image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/janek37/parse-qwantz"
	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/colorlog"
	"github.com/janek37/parse-qwantz/internal/qwantz/panel"
	"github.com/janek37/parse-qwantz/internal/qwantz/prepare"
)

func main() {
	debug := flag.Bool("debug", false, "write a debug overlay PNG alongside each input")
	overridesPath := flag.String("overrides", "", "path to a panel-overrides JSON file")
	workers := flag.Int("workers", 4, "number of pages to process concurrently")
	verbose := flag.Bool("v", false, "log at Debug level instead of Warning")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: parse-qwantz [-debug] [-overrides file] [-workers N] page.png [page2.png ...]")
		os.Exit(1)
	}

	level := common.LogLevelWarning
	if *verbose {
		level = common.LogLevelDebug
	}
	common.SetLogger(colorlog.New(level))

	var overrideTable map[string]map[string][]string
	if *overridesPath != "" {
		table, err := prepare.Overrides(*overridesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading overrides: %v\n", err)
			os.Exit(1)
		}
		overrideTable = table
	}

	if err := qwantz.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "initializing: %v\n", err)
		os.Exit(1)
	}

	paths := flag.Args()
	results := make([]error, len(paths))

	var wg sync.WaitGroup
	sem := make(chan struct{}, *workers)
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = processPage(path, overrideTable, *debug)
		}(i, path)
	}
	wg.Wait()

	exitCode := 0
	for i, err := range results {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", paths[i], err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// processPage loads, recognizes, and prints the script for one page file,
// mirroring parse_qwantz's per-file loop including its MD5-keyed override
// lookup.
func processPage(path string, overrideTable map[string]map[string][]string, debug bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overrides map[string][]string
	if overrideTable != nil {
		overrides = overrideTable[prepare.DigestOf(raw)]
	}

	img, goodPanels, err := prepare.Load(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	outputs, err := qwantz.ParsePage(img, goodPanels, overrides)
	if err != nil {
		return err
	}

	fmt.Printf("== %s ==\n", filepath.Base(path))
	for _, out := range outputs {
		label := fmt.Sprintf("Panel %d:", out.Index)
		if out.Index == 0 {
			label = "Footer:"
		}
		fmt.Println(label)
		if out.Skipped {
			fmt.Println("  (skipped: template did not match)")
			continue
		}
		for _, line := range out.Lines {
			fmt.Printf("  %s\n", line)
		}
	}

	if debug {
		return writeDebugOverlay(path, img)
	}
	return nil
}

// writeDebugOverlay re-runs every panel through qwantz.RunPanelDebug and
// composites the annotated panels back onto a full-page canvas, saved next
// to the input as "<name>.debug.png", mirroring handle_debug's annotated
// preview.
func writeDebugOverlay(path string, img goimage.Image) error {
	out := goimage.NewRGBA(img.Bounds())
	for i, rect := range panel.Panels {
		sub := goimage.NewRGBA(goimage.Rect(0, 0, rect.Width, rect.Height))
		for y := 0; y < rect.Height; y++ {
			for x := 0; x < rect.Width; x++ {
				sub.Set(x, y, img.At(img.Bounds().Min.X+rect.X+x, img.Bounds().Min.Y+rect.Y+y))
			}
		}
		_, overlay := qwantz.RunPanelDebug(sub, panel.Characters[i], false)
		if overlay == nil {
			continue
		}
		for y := 0; y < rect.Height; y++ {
			for x := 0; x < rect.Width; x++ {
				out.Set(rect.X+x, rect.Y+y, overlay.At(x, y))
			}
		}
	}

	outPath := path + ".debug.png"
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}
