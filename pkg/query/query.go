// Package query fetches typed record collections from the record store.
//
// The store is reached through a [Searcher]:
//   - [MemorySearcher]: fixed in-process collections, for tests and demos
//   - [FileSearcher]: one JSON array per type in a directory
//   - [HTTPSearcher]: the search endpoint of a facetkit host
//   - [MongoSearcher]: one MongoDB collection per type
//   - [CachedSearcher]: wraps another searcher with a result cache
//
// An [Object] queries one collection and tags every returned record with the
// collection's type. A [Catalog] holds one object per collection type.
//
//	cat := query.NewCatalog(searcher, logger)
//	metrics, err := cat.Metric.Query(ctx, "name=loss")
package query

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/observability"
	"github.com/matzehuels/facetkit/pkg/record"
)

// Collection type tags.
const (
	TypeMetric        = "metric"
	TypeImages        = "images"
	TypeFigures       = "figures"
	TypeAudios        = "audios"
	TypeTexts         = "texts"
	TypeDistributions = "distributions"
)

// Types lists the collection type tags in catalog order.
var Types = []string{
	TypeMetric, TypeImages, TypeFigures, TypeAudios, TypeTexts, TypeDistributions,
}

// IsType reports whether tag names a known collection.
func IsType(tag string) bool {
	for _, t := range Types {
		if t == tag {
			return true
		}
	}
	return false
}

// Searcher runs a query against one collection of the record store.
type Searcher interface {
	Search(ctx context.Context, typeTag, query string) ([]record.Record, error)
}

// SearchFunc adapts a function to [Searcher].
type SearchFunc func(ctx context.Context, typeTag, query string) ([]record.Record, error)

// Search calls f.
func (f SearchFunc) Search(ctx context.Context, typeTag, query string) ([]record.Record, error) {
	return f(ctx, typeTag, query)
}

// Object queries one collection and keeps the last result.
type Object struct {
	typeTag  string
	searcher Searcher
	logger   *log.Logger

	mu    sync.Mutex
	items []record.Record
}

// NewObject creates an object for the collection typeTag. A nil logger
// discards output.
func NewObject(typeTag string, s Searcher, logger *log.Logger) *Object {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Object{typeTag: typeTag, searcher: s, logger: logger}
}

// Type returns the collection type tag.
func (o *Object) Type() string { return o.typeTag }

// Items returns the records of the last successful query.
func (o *Object) Items() []record.Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.items
}

// Query searches the collection and tags each record with the collection
// type. Failures are returned as QUERY_FAILED errors; nothing is retried.
func (o *Object) Query(ctx context.Context, q string) ([]record.Record, error) {
	start := time.Now()
	observability.Query().OnQueryStart(ctx, o.typeTag, q)

	data, err := o.searcher.Search(ctx, o.typeTag, q)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeQueryFailed, err, "search %s", o.typeTag)
		observability.Query().OnQueryComplete(ctx, o.typeTag, q, 0, time.Since(start), err)
		return nil, err
	}

	items := make([]record.Record, 0, len(data))
	for _, r := range data {
		if r == nil {
			r = record.Record{}
		}
		r[record.FieldType] = o.typeTag
		items = append(items, r)
	}
	o.mu.Lock()
	o.items = items
	o.mu.Unlock()

	o.logger.Debug("query complete", "type", o.typeTag, "query", q, "records", len(items), "duration", time.Since(start))
	observability.Query().OnQueryComplete(ctx, o.typeTag, q, len(items), time.Since(start), nil)
	return items, nil
}

// Catalog holds one object per collection type.
type Catalog struct {
	Metric        *MetricObject
	Images        *Object
	Figures       *Object
	Audios        *Object
	Texts         *Object
	Distributions *Object
}

// NewCatalog creates objects for every collection over s.
func NewCatalog(s Searcher, logger *log.Logger) *Catalog {
	return &Catalog{
		Metric:        &MetricObject{Object: NewObject(TypeMetric, s, logger)},
		Images:        NewObject(TypeImages, s, logger),
		Figures:       NewObject(TypeFigures, s, logger),
		Audios:        NewObject(TypeAudios, s, logger),
		Texts:         NewObject(TypeTexts, s, logger),
		Distributions: NewObject(TypeDistributions, s, logger),
	}
}

// Object returns the object for a type tag.
func (c *Catalog) Object(typeTag string) (*Object, error) {
	switch typeTag {
	case TypeMetric:
		return c.Metric.Object, nil
	case TypeImages:
		return c.Images, nil
	case TypeFigures:
		return c.Figures, nil
	case TypeAudios:
		return c.Audios, nil
	case TypeTexts:
		return c.Texts, nil
	case TypeDistributions:
		return c.Distributions, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidType, "unknown record type %q (want one of %v)", typeTag, Types)
}
