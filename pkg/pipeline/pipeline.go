// Package pipeline runs declarative views: query → build → facet → publish.
//
// A [View] names a record collection, a query, the builder that shapes the
// records and the facet dimensions to split them by. Views are usually kept
// in a TOML file:
//
//	[[view]]
//	name    = "losses"
//	type    = "metric"
//	query   = "name=loss"
//	builder = "LineChart"
//	x       = "steps"
//	y       = "values"
//	color   = ["run.hash"]
//
//	[view.facet]
//	row = ["context.subset"]
//
// # Usage
//
//	runner := pipeline.NewRunner(catalog, publisher, logger)
//	views, err := pipeline.LoadViews("views.toml")
//	if err != nil {
//	    return err
//	}
//	results, err := runner.RunAll(ctx, views)
package pipeline

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/facet"
	"github.com/matzehuels/facetkit/pkg/group"
	"github.com/matzehuels/facetkit/pkg/query"
	"github.com/matzehuels/facetkit/pkg/tree"
	"github.com/matzehuels/facetkit/pkg/viz"
)

// DefaultBuilders maps collection types to the builder used when a view
// does not name one.
var DefaultBuilders = map[string]string{
	query.TypeMetric:        viz.TypeLineChart,
	query.TypeImages:        viz.TypeImages,
	query.TypeFigures:       viz.TypePlotly,
	query.TypeAudios:        viz.TypeAudios,
	query.TypeTexts:         viz.TypeText,
	query.TypeDistributions: viz.TypeJSON,
}

// ValidBuilders is the set of builders a view can name.
var ValidBuilders = map[string]bool{
	viz.TypeLineChart: true,
	viz.TypeImages:    true,
	viz.TypeAudios:    true,
	viz.TypeText:      true,
	viz.TypePlotly:    true,
	viz.TypeJSON:      true,
	viz.TypeDataFrame: true,
	viz.TypeHTML:      true,
}

// FacetSpec holds the row and column field paths of a view.
type FacetSpec struct {
	Row    []string `toml:"row" json:"row,omitempty"`
	Column []string `toml:"column" json:"column,omitempty"`
}

// View describes one panel.
type View struct {
	Name  string `toml:"name" json:"name"`
	Type  string `toml:"type" json:"type"`
	Query string `toml:"query" json:"query,omitempty"`
	// Builder defaults from Type, see DefaultBuilders.
	Builder string `toml:"builder" json:"builder,omitempty"`

	// Runs replaces the records by the distinct runs they belong to.
	Runs bool `toml:"runs" json:"runs,omitempty"`

	// LineChart settings.
	X           string   `toml:"x" json:"x,omitempty"`
	Y           string   `toml:"y" json:"y,omitempty"`
	Color       []string `toml:"color" json:"color,omitempty"`
	StrokeStyle []string `toml:"stroke_style" json:"stroke_style,omitempty"`

	// Metric selects the metric reshaped by the DataFrame builder.
	Metric int `toml:"metric" json:"metric,omitempty"`
	// HTML is the fragment published by the HTML builder.
	HTML string `toml:"html" json:"html,omitempty"`

	Options map[string]any `toml:"options" json:"options,omitempty"`

	Facet FacetSpec           `toml:"facet" json:"facet,omitempty"`
	Stack []string            `toml:"stack" json:"stack,omitempty"`
	Dims  map[string][]string `toml:"dims" json:"dims,omitempty"`
	Size  map[string]any      `toml:"size" json:"size,omitempty"`
}

// Document is the layout of a view file.
type Document struct {
	Views []View `toml:"view"`
}

// Result is the outcome of running one view.
type Result struct {
	View string
	Node *tree.Node
	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains view execution statistics.
type Stats struct {
	Records   int           `json:"records"`
	QueryTime time.Duration `json:"query_time"`
	BuildTime time.Duration `json:"build_time"`
	FacetTime time.Duration `json:"facet_time"`
	Faceted   bool          `json:"faceted"`
}

// LoadViews reads a view file. Unknown keys are an error.
func LoadViews(path string) ([]View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidView, err, "read view file")
	}
	views, err := ParseViews(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return views, nil
}

// ParseViews decodes view definitions from TOML text and validates them.
func ParseViews(data string) ([]View, error) {
	var doc Document
	md, err := toml.Decode(data, &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidView, err, "parse views")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidView, "unknown view keys: %s", strings.Join(keys, ", "))
	}
	for i := range doc.Views {
		if err := doc.Views[i].ValidateAndSetDefaults(); err != nil {
			return nil, err
		}
	}
	return doc.Views, nil
}

// ValidateAndSetDefaults checks the view and fills in the builder.
func (v *View) ValidateAndSetDefaults() error {
	if v.Name == "" {
		v.Name = v.Type
	}
	if !query.IsType(v.Type) {
		return errors.New(errors.ErrCodeInvalidType, "view %q: unknown record type %q (want one of %v)", v.Name, v.Type, query.Types)
	}
	if v.Builder == "" {
		v.Builder = DefaultBuilders[v.Type]
	}
	if !ValidBuilders[v.Builder] {
		return errors.New(errors.ErrCodeInvalidView, "view %q: unknown builder %q (want one of %s)", v.Name, v.Builder, strings.Join(viz.Types, ", "))
	}
	if v.Builder == viz.TypeLineChart && (v.X == "" || v.Y == "") {
		return errors.New(errors.ErrCodeInvalidView, "view %q: LineChart requires x and y", v.Name)
	}
	if v.Builder == viz.TypeDataFrame && v.Type != query.TypeMetric {
		return errors.New(errors.ErrCodeInvalidView, "view %q: DataFrame requires metric records", v.Name)
	}
	if v.Metric < 0 {
		return errors.New(errors.ErrCodeInvalidView, "view %q: metric index cannot be negative", v.Name)
	}

	paths := [][]string{v.Color, v.StrokeStyle, v.Facet.Row, v.Facet.Column, v.Stack}
	for _, name := range v.dimNames() {
		if err := errors.ValidateDimensionName(name); err != nil {
			return fmt.Errorf("view %q: %w", v.Name, err)
		}
		paths = append(paths, v.Dims[name])
	}
	if v.X != "" {
		paths = append(paths, []string{v.X, v.Y})
	}
	for _, ps := range paths {
		for _, p := range ps {
			if err := errors.ValidateFieldPath(p); err != nil {
				return fmt.Errorf("view %q: %w", v.Name, err)
			}
		}
	}
	return nil
}

// Faceted reports whether the view sets any facet dimension.
func (v *View) Faceted() bool {
	return len(v.Facet.Row) > 0 || len(v.Facet.Column) > 0 || len(v.Stack) > 0 || len(v.Dims) > 0
}

// FacetOptions converts the view's dimensions to composer options.
func (v *View) FacetOptions() facet.Options {
	opts := facet.Options{
		Row:    spec(v.Facet.Row),
		Column: spec(v.Facet.Column),
		Stack:  spec(v.Stack),
		Size:   v.Size,
	}
	if len(v.Dims) > 0 {
		opts.Dims = make(map[string]group.Spec, len(v.Dims))
		for name, paths := range v.Dims {
			opts.Dims[name] = spec(paths)
		}
	}
	return opts
}

// LineChartOptions converts the view's chart settings.
func (v *View) LineChartOptions() viz.LineChartOptions {
	return viz.LineChartOptions{
		X:           v.X,
		Y:           v.Y,
		Color:       spec(v.Color),
		StrokeStyle: spec(v.StrokeStyle),
		Options:     v.Options,
	}
}

func (v *View) dimNames() []string {
	names := make([]string, 0, len(v.Dims))
	for name := range v.Dims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func spec(paths []string) group.Spec {
	if len(paths) == 0 {
		return group.Spec{}
	}
	return group.Fields(paths...)
}
