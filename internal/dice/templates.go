package dice

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"path"

	"dice-reader/pkg/intensity"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Faces is the number of faces on a die.
const Faces = 6

// Template is the reference image for one face value.
type Template struct {
	Face  int
	Image *image.Gray

	pixels []float64 // Image flattened row-major
}

// TemplateSet is the immutable set of six face templates. It is built once
// at startup and shared read-only between requests.
type TemplateSet struct {
	templates [Faces]Template
}

// NewTemplateSet builds a set from one image per face value 1..6.
// Every face must be present and non-empty.
func NewTemplateSet(images map[int]*image.Gray) (*TemplateSet, error) {
	ts := &TemplateSet{}
	for face := 1; face <= Faces; face++ {
		img, ok := images[face]
		if !ok || img == nil {
			return nil, fmt.Errorf("%w: face %d missing", ErrTemplateLoad, face)
		}
		if img.Bounds().Empty() {
			return nil, fmt.Errorf("%w: face %d is empty", ErrTemplateLoad, face)
		}
		owned := intensity.Crop(img, img.Bounds())
		ts.templates[face-1] = Template{
			Face:   face,
			Image:  owned,
			pixels: intensity.Flatten(owned),
		}
	}
	return ts, nil
}

// Get returns the template for a face value.
func (ts *TemplateSet) Get(face int) (Template, bool) {
	if face < 1 || face > Faces {
		return Template{}, false
	}
	return ts.templates[face-1], true
}

// All returns the templates in ascending face order.
func (ts *TemplateSet) All() []Template {
	out := make([]Template, Faces)
	copy(out, ts.templates[:])
	return out
}

// Len returns the number of templates, always Faces for a constructed set.
func (ts *TemplateSet) Len() int {
	n := 0
	for _, t := range ts.templates {
		if t.Image != nil {
			n++
		}
	}
	return n
}

// TemplateSource opens the stored capture for one face value.
type TemplateSource interface {
	Open(face int) (io.ReadCloser, error)
}

// FSSource reads templates laid out as <Prefix>/<face>.png from a file system.
type FSSource struct {
	FS     fs.FS
	Prefix string
}

// Open opens <Prefix>/<face>.png.
func (s FSSource) Open(face int) (io.ReadCloser, error) {
	return s.FS.Open(TemplatePath(s.Prefix, face))
}

// TemplatePath returns the storage path of a face template under prefix.
func TemplatePath(prefix string, face int) string {
	return path.Join(prefix, fmt.Sprintf("%d.png", face))
}

// LoadTemplates reads all six templates from src, converts them to
// grayscale and crops them to crop. Any failure is reported as
// ErrTemplateLoad and must stop the service from starting.
func LoadTemplates(src TemplateSource, crop image.Rectangle) (*TemplateSet, error) {
	images := make(map[int]*image.Gray, Faces)
	for face := 1; face <= Faces; face++ {
		img, err := loadTemplate(src, face, crop)
		if err != nil {
			return nil, fmt.Errorf("%w: face %d: %v", ErrTemplateLoad, face, err)
		}
		images[face] = img
	}
	return NewTemplateSet(images)
}

func loadTemplate(src TemplateSource, face int, crop image.Rectangle) (*image.Gray, error) {
	rc, err := src.Open(face)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	gray := intensity.ToGray(img)
	if crop.Empty() {
		return gray, nil
	}
	if !crop.In(gray.Bounds()) {
		return nil, fmt.Errorf("crop region %v outside template %v", crop, gray.Bounds())
	}
	return intensity.Crop(gray, crop), nil
}
