// Package chart validates field selections and renders the explorer's three
// charts to fixed-path PNG files.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/dataset-explorer/internal/dataset"
	"github.com/KaramelBytes/dataset-explorer/internal/logging"
	"github.com/KaramelBytes/dataset-explorer/internal/schema"
	"github.com/KaramelBytes/dataset-explorer/internal/utils"
	"github.com/KaramelBytes/dataset-explorer/internal/validate"
)

// Kind identifies one of the charts.
type Kind string

const (
	KindScatter  Kind = "scatter"
	KindErrorBar Kind = "errorbar"
	KindHeatmap  Kind = "heatmap"
)

// Kinds lists every chart kind.
var Kinds = []Kind{KindScatter, KindErrorBar, KindHeatmap}

// Minimum number of selected fields per chart.
const (
	minScatterFields  = 2
	minErrorBarFields = 1
	minHeatmapFields  = 2
)

var (
	// ErrUnknownField matches selections naming columns absent from the dataset.
	ErrUnknownField = errors.New("unknown field")
	// ErrNotContinuous matches selections naming columns outside the continuous set.
	ErrNotContinuous = errors.New("not a continuous field")
)

// Options controls where artifacts are written.
type Options struct {
	OutputDir   string
	ScatterFile string
	LineFile    string
	HeatmapFile string
	Logger      logrus.FieldLogger
}

// DefaultOptions writes artifacts to the working directory.
func DefaultOptions() Options {
	return Options{
		OutputDir:   ".",
		ScatterFile: "scatter.png",
		LineFile:    "lineplot.png",
		HeatmapFile: "heatmap.png",
	}
}

// Result is the outcome of one render call. Path is empty when nothing was
// rendered; Message is empty on success and user-facing otherwise.
type Result struct {
	Kind    Kind
	Path    string
	Message string
	// Image holds the PNG bytes written to Path.
	Image []byte
	// Err is the underlying failure, for callers that classify outcomes.
	Err error
}

// OK reports whether an artifact was written.
func (r Result) OK() bool { return r.Path != "" }

// Renderer draws charts from a read-only dataset. It is safe for concurrent use.
type Renderer struct {
	ds     *dataset.Dataset
	schema schema.Schema
	opt    Options
	log    logrus.FieldLogger
}

// NewRenderer builds a Renderer. Empty file names in opt fall back to defaults.
func NewRenderer(ds *dataset.Dataset, s schema.Schema, opt Options) *Renderer {
	def := DefaultOptions()
	if opt.OutputDir == "" {
		opt.OutputDir = def.OutputDir
	}
	if opt.ScatterFile == "" {
		opt.ScatterFile = def.ScatterFile
	}
	if opt.LineFile == "" {
		opt.LineFile = def.LineFile
	}
	if opt.HeatmapFile == "" {
		opt.HeatmapFile = def.HeatmapFile
	}
	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Renderer{ds: ds, schema: s, opt: opt, log: log}
}

// Schema returns the schema the renderer validates against.
func (r *Renderer) Schema() schema.Schema { return r.schema }

// Dataset returns the dataset being charted.
func (r *Renderer) Dataset() *dataset.Dataset { return r.ds }

// Path returns the fixed artifact path for kind.
func (r *Renderer) Path(kind Kind) string {
	var name string
	switch kind {
	case KindScatter:
		name = r.opt.ScatterFile
	case KindErrorBar:
		name = r.opt.LineFile
	case KindHeatmap:
		name = r.opt.HeatmapFile
	default:
		return ""
	}
	return filepath.Join(r.opt.OutputDir, name)
}

// check runs field validation and verifies every field is a continuous
// column of the dataset.
func (r *Renderer) check(fields []string, minCount int) ([]string, error) {
	ok, err := validate.Fields(fields, r.schema.Categorical, minCount)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, f := range ok {
		if !r.ds.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &UnknownFieldError{Fields: missing}
	}
	var other []string
	for _, f := range ok {
		if !r.schema.IsContinuous(f) && !contains(other, f) {
			other = append(other, f)
		}
	}
	if len(other) > 0 {
		return nil, &NotContinuousError{Fields: other}
	}
	return ok, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// UnknownFieldError lists selected fields that are not dataset columns.
type UnknownFieldError struct {
	Fields []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("Error: Unknown variables: %s.", strings.Join(e.Fields, ", "))
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// NotContinuousError lists selected columns that are neither categorical nor continuous.
type NotContinuousError struct {
	Fields []string
}

func (e *NotContinuousError) Error() string {
	return fmt.Sprintf("Error: Not continuous variables: %s.", strings.Join(e.Fields, ", "))
}

func (e *NotContinuousError) Is(target error) bool { return target == ErrNotContinuous }

// Rejected reports whether err is a selection problem rather than a render failure.
func Rejected(err error) bool {
	return errors.Is(err, validate.ErrForbiddenField) ||
		errors.Is(err, validate.ErrInsufficientSelection) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrNotContinuous)
}

func (r *Renderer) fail(kind Kind, err error) Result {
	msg := err.Error()
	if !Rejected(err) {
		msg = fmt.Sprintf("Error: Could not render chart: %v.", err)
		r.log.WithFields(logrus.Fields{"kind": kind, "error": err}).Error("chart render failed")
	} else {
		r.log.WithFields(logrus.Fields{"kind": kind, "reason": msg}).Debug("chart request rejected")
	}
	return Result{Kind: kind, Message: msg, Err: err}
}

// save encodes p as PNG and atomically replaces the artifact for kind.
func (r *Renderer) save(kind Kind, p *plot.Plot, w, h vg.Length, start time.Time) Result {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return r.fail(kind, fmt.Errorf("encode png: %w", err))
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return r.fail(kind, fmt.Errorf("encode png: %w", err))
	}
	path := r.Path(kind)
	if err := utils.EnsureDir(r.opt.OutputDir); err != nil {
		return r.fail(kind, fmt.Errorf("output dir: %w", err))
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return r.fail(kind, err)
	}
	r.log.WithFields(logrus.Fields{
		"kind":  kind,
		"path":  path,
		"bytes": buf.Len(),
		"took":  time.Since(start).String(),
	}).Debug("chart rendered")
	return Result{Kind: kind, Path: path, Image: buf.Bytes()}
}
