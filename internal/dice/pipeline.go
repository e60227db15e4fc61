package dice

import (
	"context"
	"fmt"
	"image"

	"dice-reader/pkg/intensity"

	"github.com/sirupsen/logrus"
)

// Vision supplies the image-processing stages of the pipeline.
// Implementations must not retain or mutate their inputs.
type Vision interface {
	// Preprocess equalises contrast and reduces img to grayscale.
	Preprocess(img image.Image) (*image.Gray, error)
	// ExtractViewport finds the device display in proxy, the preprocessed
	// copy of photo, and returns photo cropped to it.
	ExtractViewport(photo image.Image, proxy *image.Gray) (image.Image, error)
	// DetectRegions labels the edge components of a preprocessed viewport.
	DetectRegions(viewport *image.Gray) ([]Region, error)
}

// Pipeline reads dice values from photos. It is safe for concurrent use as
// long as its Vision is.
type Pipeline struct {
	vision     Vision
	classifier *Classifier
	params     Params
	log        logrus.FieldLogger
}

// NewPipeline creates a pipeline over an already loaded template set.
func NewPipeline(vision Vision, templates *TemplateSet, params Params, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{
		vision:     vision,
		classifier: NewClassifier(templates),
		params:     params,
		log:        log,
	}
}

// Params returns the parameters the pipeline was created with.
func (p *Pipeline) Params() Params {
	return p.params
}

// Extract returns the dice shown in photo, left to right. Failures before
// classification abort with a *StageError; a die that matches no template
// is reported as an unmatched Classification in its position.
func (p *Pipeline) Extract(ctx context.Context, photo image.Image) (*Result, error) {
	proxy, err := p.vision.Preprocess(photo)
	if err != nil {
		return nil, stageError(StagePreprocess, err)
	}

	viewport, err := p.vision.ExtractViewport(photo, proxy)
	if err != nil {
		return nil, stageError(StageViewport, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bw, err := p.vision.Preprocess(viewport)
	if err != nil {
		return nil, stageError(StagePreprocess, err)
	}

	regions, err := p.vision.DetectRegions(bw)
	if err != nil {
		return nil, stageError(StageRegions, err)
	}
	p.log.WithFields(logrus.Fields{
		"regions":  len(regions),
		"viewport": viewport.Bounds().Size().String(),
	}).Debug("Found regions in labeled image")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selected, err := SelectRegions(ctx, regions, p.params)
	if err != nil {
		return nil, stageError(StageSelect, err)
	}
	if len(selected) < p.params.DiceCount {
		p.log.WithFields(logrus.Fields{
			"selected": len(selected),
			"expected": p.params.DiceCount,
		}).Warn(ErrNoRegionsDetected.Error())
	}

	// Selection orders by bounding box, which puts a die that sits a row
	// higher first. Output must follow the display left to right.
	selected = sortByColumn(selected)

	result := &Result{
		Dice:    make([]Classification, 0, len(selected)),
		Regions: selected,
		Scores:  make([][Faces]float64, 0, len(selected)),
	}
	for _, r := range selected {
		die := intensity.RescaleIntensity(intensity.Crop(bw, r.BBox.Rect()))
		scores := p.classifier.Scores(die)
		c := bestMatch(scores)
		p.log.WithFields(logrus.Fields{
			"bbox":  fmt.Sprintf("%d:%d x %d:%d", r.BBox.MinRow, r.BBox.MaxRow, r.BBox.MinCol, r.BBox.MaxCol),
			"face":  c.String(),
			"score": fmt.Sprintf("%.2f", c.Score),
		}).Debug("Classified region")
		result.Dice = append(result.Dice, c)
		result.Scores = append(result.Scores, scores)
	}
	return result, nil
}
