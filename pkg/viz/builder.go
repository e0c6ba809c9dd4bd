package viz

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/group"
	"github.com/matzehuels/facetkit/pkg/record"
	"github.com/matzehuels/facetkit/pkg/tree"
)

// Node types understood by the renderer.
const (
	TypeLineChart = "LineChart"
	TypeImages    = "Images"
	TypeAudios    = "Audios"
	TypeText      = "Text"
	TypePlotly    = "Plotly"
	TypeJSON      = "JSON"
	TypeDataFrame = "DataFrame"
	TypeHTML      = "HTML"
)

// Types lists every node type a builder can produce.
var Types = []string{
	TypeLineChart, TypeImages, TypeAudios, TypeText,
	TypePlotly, TypeJSON, TypeDataFrame, TypeHTML,
}

// Record fields written by builders.
const (
	FieldColor     = "color"
	FieldStroke    = "stroke_style"
	FieldData      = "data"
	FieldDasharray = "dasharray"
	FieldXValues   = "xValues"
	FieldYValues   = "yValues"
)

// Node fields.
const (
	FieldOptions = "options"
)

// Publisher publishes nodes and exposes the host state slot.
type Publisher interface {
	AutoUpdate(ctx context.Context, node *tree.Node) error
	State(ctx context.Context) (map[string]any, error)
	SetState(ctx context.Context, patch map[string]any) error
}

// Figure is a chart object with a JSON interchange form.
type Figure interface {
	ToJSON() ([]byte, error)
}

// RawFigure is a figure that is already serialized.
type RawFigure json.RawMessage

// ToJSON returns the figure bytes.
func (f RawFigure) ToJSON() ([]byte, error) {
	return []byte(f), nil
}

// Tabular is a table that can be converted to row records.
type Tabular interface {
	Records() ([]record.Record, error)
}

// Builder builds and publishes visualization nodes.
type Builder struct {
	pub    Publisher
	logger *log.Logger
}

// NewBuilder creates a builder publishing through pub. A nil logger
// discards output.
func NewBuilder(pub Publisher, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Builder{pub: pub, logger: logger}
}

// ImagesList attaches a positional key to each image record.
func (b *Builder) ImagesList(ctx context.Context, data []record.Record) (*tree.Node, error) {
	return b.publish(ctx, b.node(TypeImages, keyed(data)))
}

// AudiosList attaches a positional key to each audio record.
func (b *Builder) AudiosList(ctx context.Context, data []record.Record) (*tree.Node, error) {
	return b.publish(ctx, b.node(TypeAudios, keyed(data)))
}

// TextsList colors text records by the color spec and attaches a
// positional key.
func (b *Builder) TextsList(ctx context.Context, data []record.Record, color group.Spec) (*tree.Node, error) {
	texts := keyed(data)
	colors, _ := group.Group(FieldColor, texts, color)
	for _, t := range texts {
		d, _ := colors.Of(t)
		t[FieldColor] = ColorAt(d.Order)
	}
	return b.publish(ctx, b.node(TypeText, texts))
}

// FiguresList serializes each figure and wraps it as {key, data}.
func (b *Builder) FiguresList(ctx context.Context, figs ...Figure) (*tree.Node, error) {
	figures := make([]record.Record, len(figs))
	for i, f := range figs {
		data, err := f.ToJSON()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "serialize figure %d", i)
		}
		if !json.Valid(data) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "figure %d is not valid JSON", i)
		}
		figures[i] = record.Record{
			record.FieldKey: i,
			FieldData:       json.RawMessage(data),
		}
	}
	return b.publish(ctx, b.node(TypePlotly, figures))
}

// JSON publishes data as is.
func (b *Builder) JSON(ctx context.Context, data any) (*tree.Node, error) {
	return b.publish(ctx, b.node(TypeJSON, data))
}

// HTML publishes an HTML fragment as is.
func (b *Builder) HTML(ctx context.Context, html string) (*tree.Node, error) {
	return b.publish(ctx, b.node(TypeHTML, html))
}

// Table publishes a table in row orientation.
func (b *Builder) Table(ctx context.Context, tab Tabular) (*tree.Node, error) {
	rows, err := tab.Records()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "convert table")
	}
	return b.publish(ctx, b.node(TypeDataFrame, rows))
}

func (b *Builder) node(typ string, data any) *tree.Node {
	return &tree.Node{ID: uuid.NewString(), Type: typ, Data: data}
}

func (b *Builder) publish(ctx context.Context, n *tree.Node) (*tree.Node, error) {
	if rs, ok := n.Records(); ok {
		b.logger.Debug("built node", "type", n.Type, "records", len(rs))
	} else {
		b.logger.Debug("built node", "type", n.Type)
	}
	if b.pub != nil {
		if err := b.pub.AutoUpdate(ctx, n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// keyed returns shallow copies of data with a positional key.
func keyed(data []record.Record) []record.Record {
	out := make([]record.Record, len(data))
	for i, r := range data {
		c := r.Clone()
		c[record.FieldKey] = i
		out[i] = c
	}
	return out
}
