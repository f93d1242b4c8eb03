// Package query turns the loosely-typed list parameters of the books API
// (search, read, sort) into a structured plan that the document store executes.
//
// Building a plan never performs I/O: the same parameters always yield the
// same plan.
package query

import (
	"net/url"
	"strings"
)

// Params are the raw list parameters as received from the client.
type Params struct {
	Search string
	Read   string
	Sort   string
}

// ParamsFromValues extracts list parameters from a URL query.
func ParamsFromValues(values url.Values) Params {
	return Params{
		Search: values.Get("search"),
		Read:   values.Get("read"),
		Sort:   values.Get("sort"),
	}
}

type FilterKind int

const (
	NoFilter FilterKind = iota
	SearchFilter
	ReadFilter
	CombinedFilter
)

func (k FilterKind) String() string {
	switch k {
	case NoFilter:
		return "none"
	case SearchFilter:
		return "search"
	case ReadFilter:
		return "read"
	case CombinedFilter:
		return "search+read"
	default:
		return "unknown"
	}
}

// Filter selects the records a list returns. Search is only meaningful for
// SearchFilter and CombinedFilter, Read only for ReadFilter and CombinedFilter.
type Filter struct {
	Kind   FilterKind
	Search string
	Read   bool
}

// HasSearch reports whether the filter restricts on author/title text.
func (f Filter) HasSearch() bool {
	return f.Kind == SearchFilter || f.Kind == CombinedFilter
}

// HasRead reports whether the filter restricts on the read flag.
func (f Filter) HasRead() bool {
	return f.Kind == ReadFilter || f.Kind == CombinedFilter
}

type OrderKind int

const (
	// NoOrder keeps the natural store order (insertion order).
	NoOrder OrderKind = iota
	// NativeOrder sorts on a stored column.
	NativeOrder
	// DerivedOrder sorts on the author's surname, computed per record.
	DerivedOrder
)

func (k OrderKind) String() string {
	switch k {
	case NoOrder:
		return "none"
	case NativeOrder:
		return "native"
	case DerivedOrder:
		return "derived"
	default:
		return "unknown"
	}
}

type Field string

const (
	FieldAuthor Field = "author"
	FieldTitle  Field = "title"
	FieldGenre  Field = "genre"
	FieldRead   Field = "read"
)

// nativeFields can be sorted on directly by the store.
var nativeFields = map[Field]bool{
	FieldRead:  true,
	FieldTitle: true,
	FieldGenre: true,
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Order describes how results are sorted. Field is set for NativeOrder only.
type Order struct {
	Kind      OrderKind
	Field     Field
	Direction Direction
}

// Plan is the complete description of a list request.
type Plan struct {
	Filter Filter
	Order  Order
}

// Build parses list parameters into a plan.
func Build(params Params) Plan {
	return Plan{
		Filter: buildFilter(params.Search, params.Read),
		Order:  ParseSort(params.Sort),
	}
}

func buildFilter(search, read string) Filter {
	hasSearch := search != ""
	hasRead := read != ""

	switch {
	case hasSearch && hasRead:
		return Filter{Kind: CombinedFilter, Search: search, Read: read == "true"}
	case hasSearch:
		return Filter{Kind: SearchFilter, Search: search}
	case hasRead:
		return Filter{Kind: ReadFilter, Read: read == "true"}
	default:
		return Filter{Kind: NoFilter}
	}
}

// ParseSort parses a "field_direction" token. The token is split on its last
// underscore; a token without one is a bare field sorted ascending. Fields
// that cannot be sorted on yield NoOrder.
func ParseSort(token string) Order {
	if token == "" {
		return Order{Kind: NoOrder}
	}

	field, direction := token, ""
	if i := strings.LastIndex(token, "_"); i >= 0 {
		field, direction = token[:i], token[i+1:]
	}

	dir := Ascending
	if direction == "desc" {
		dir = Descending
	}

	f := Field(field)
	switch {
	case f == FieldAuthor:
		return Order{Kind: DerivedOrder, Direction: dir}
	case nativeFields[f]:
		return Order{Kind: NativeOrder, Field: f, Direction: dir}
	default:
		return Order{Kind: NoOrder}
	}
}
