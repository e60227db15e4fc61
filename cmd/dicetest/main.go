// Command dicetest reads the dice from a photo and prints the intermediate
// results.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"dice-reader/internal/config"
	"dice-reader/internal/dice"
	"dice-reader/internal/vision"
	"dice-reader/pkg/log"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func main() {
	imagePath := flag.String("image", "", "Path to photo (PNG, JPEG, TIFF or BMP)")
	templateDir := flag.String("templates", "templates", "Directory holding 1.png .. 6.png")
	crop := flag.String("crop", config.FormatRect(dice.DefaultParams().TemplateCrop), "Template crop x0,y0,x1,y1 or none")
	verbose := flag.Bool("v", false, "Log pipeline stages")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: dicetest -image <path> [-templates dir] [-crop x0,y0,x1,y1] [-v]")
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := log.NewLogger(log.Options{Level: level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cropRect, err := config.ParseRect(*crop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid crop: %v\n", err)
		os.Exit(1)
	}
	params := dice.DefaultParams().WithTemplateCrop(cropRect)

	// Load templates
	templates, err := dice.LoadTemplates(dice.FSSource{FS: os.DirFS(*templateDir)}, params.TemplateCrop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load templates: %v\n", err)
		os.Exit(1)
	}
	one, _ := templates.Get(1)
	size := one.Image.Bounds().Size()
	fmt.Printf("Loaded %d templates from %s (%dx%d)\n", templates.Len(), *templateDir, size.X, size.Y)

	// Load image
	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	vp := vision.DefaultParams()
	fmt.Printf("\nParameters:\n")
	fmt.Printf("  CLAHE: clip %.1f tile %d\n", vp.CLAHEClipLimit, vp.CLAHETileSize)
	fmt.Printf("  Canny: sigma %.1f/%.1f thresholds %.1f-%.1f\n", vp.ViewportSigma, vp.RegionSigma, vp.CannyLow, vp.CannyHigh)
	fmt.Printf("  Shape: area %d-%d aspect %.2f-%.2f\n", params.MinArea, params.MaxArea, params.MinAspect, params.MaxAspect)
	fmt.Printf("  Line search: %d dice, at most %d candidates\n", params.DiceCount, params.MaxCandidates)

	pipeline := dice.NewPipeline(vision.NewDetector(vp), templates, params, logger)

	fmt.Printf("\nReading dice...\n")
	result, err := pipeline.Extract(context.Background(), img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nSelected %d regions:\n", len(result.Regions))
	fmt.Printf("%-4s %-20s %6s %8s %8s %6s", "#", "BBox", "Area", "Major", "Minor", "Face")
	for face := 1; face <= dice.Faces; face++ {
		fmt.Printf(" %7s", fmt.Sprintf("r(%d)", face))
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", 56+8*dice.Faces))

	for i, r := range result.Regions {
		c := result.Dice[i]
		bbox := fmt.Sprintf("(%d,%d)-(%d,%d)", r.BBox.MinRow, r.BBox.MinCol, r.BBox.MaxRow, r.BBox.MaxCol)
		fmt.Printf("%-4d %-20s %6d %8.1f %8.1f %6s",
			i+1, bbox, r.Area, r.MajorAxisLength, r.MinorAxisLength, c)
		for _, score := range result.Scores[i] {
			fmt.Printf(" %7.3f", score)
		}
		fmt.Println()
	}

	fmt.Printf("\nDice: %v\n", result.Faces())
	if !result.Complete(params.DiceCount) {
		fmt.Printf("Warning: expected %d dice\n", params.DiceCount)
	}
}
