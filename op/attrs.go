package op

import (
	"math"
	"sort"

	"github.com/wippyai/host-runtime/errors"
	"github.com/wippyai/host-runtime/resource"
)

// AttrKind discriminates the closed set of attribute payload types.
// There is deliberately no open-ended "any" kind.
type AttrKind uint8

const (
	AttrBool AttrKind = iota
	AttrI32
	AttrI64
	AttrF32
	AttrF64
	AttrString
	AttrShape
	AttrHandle
)

func (k AttrKind) String() string {
	switch k {
	case AttrBool:
		return "bool"
	case AttrI32:
		return "i32"
	case AttrI64:
		return "i64"
	case AttrF32:
		return "f32"
	case AttrF64:
		return "f64"
	case AttrString:
		return "string"
	case AttrShape:
		return "shape"
	case AttrHandle:
		return "handle"
	default:
		return "invalid"
	}
}

// Attr is one named, typed attribute. Construct attrs with the typed
// helpers below; the payload union is not exported.
type Attr struct {
	Name string
	Kind AttrKind

	num  uint64
	str  string
	dims []int64
}

// Bool creates a boolean attribute.
func Bool(name string, v bool) Attr {
	var n uint64
	if v {
		n = 1
	}
	return Attr{Name: name, Kind: AttrBool, num: n}
}

// I32 creates a 32-bit integer attribute.
func I32(name string, v int32) Attr {
	return Attr{Name: name, Kind: AttrI32, num: uint64(int64(v))}
}

// I64 creates a 64-bit integer attribute.
func I64(name string, v int64) Attr {
	return Attr{Name: name, Kind: AttrI64, num: uint64(v)}
}

// F32 creates a 32-bit float attribute.
func F32(name string, v float32) Attr {
	return Attr{Name: name, Kind: AttrF32, num: uint64(math.Float32bits(v))}
}

// F64 creates a 64-bit float attribute.
func F64(name string, v float64) Attr {
	return Attr{Name: name, Kind: AttrF64, num: math.Float64bits(v)}
}

// String creates a string attribute.
func String(name, v string) Attr {
	return Attr{Name: name, Kind: AttrString, str: v}
}

// Shape creates a dimension-list attribute. The slice is not copied.
func Shape(name string, dims []int64) Attr {
	return Attr{Name: name, Kind: AttrShape, dims: dims}
}

// HandleAttr creates an attribute referencing a shared facility handle.
func HandleAttr(name string, h resource.Handle) Attr {
	return Attr{Name: name, Kind: AttrHandle, num: uint64(h)}
}

// Attrs is an immutable attribute bag. Lookup is by binary search over the
// canonical (lexicographic) order the caller supplied.
type Attrs struct {
	entries []Attr
}

// emptyAttrs backs the nil-safe accessors.
var emptyAttrs = &Attrs{}

// NewAttrs builds an attribute bag. Entries must already be canonicalized:
// sorted lexicographically by name, without duplicates. The executor never
// reorders attributes, so misordered input is rejected here.
func NewAttrs(entries ...Attr) (*Attrs, error) {
	for i, e := range entries {
		if e.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseAttrs, "attribute name cannot be empty")
		}
		if i > 0 {
			switch {
			case entries[i-1].Name == e.Name:
				return nil, errors.New(errors.PhaseAttrs, errors.KindDuplicate).
					Detail("duplicate attribute %q", e.Name).
					Build()
			case entries[i-1].Name > e.Name:
				return nil, errors.InvalidInput(errors.PhaseAttrs,
					"attributes not in canonical order: "+e.Name+" after "+entries[i-1].Name)
			}
		}
	}
	return &Attrs{entries: append([]Attr(nil), entries...)}, nil
}

// MustAttrs is NewAttrs for statically known attribute lists.
func MustAttrs(entries ...Attr) *Attrs {
	a, err := NewAttrs(entries...)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the number of attributes.
func (a *Attrs) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// Get returns the attribute with the given name.
func (a *Attrs) Get(name string) (Attr, bool) {
	if a == nil {
		a = emptyAttrs
	}
	i := sort.Search(len(a.entries), func(i int) bool {
		return a.entries[i].Name >= name
	})
	if i < len(a.entries) && a.entries[i].Name == name {
		return a.entries[i], true
	}
	return Attr{}, false
}

func (a *Attrs) typed(name string, kind AttrKind) (Attr, bool) {
	e, ok := a.Get(name)
	if !ok || e.Kind != kind {
		return Attr{}, false
	}
	return e, true
}

// GetBool returns a boolean attribute by name.
func (a *Attrs) GetBool(name string) (bool, bool) {
	e, ok := a.typed(name, AttrBool)
	return e.num != 0, ok
}

// GetI32 returns a 32-bit integer attribute by name.
func (a *Attrs) GetI32(name string) (int32, bool) {
	e, ok := a.typed(name, AttrI32)
	return int32(int64(e.num)), ok
}

// GetI64 returns a 64-bit integer attribute by name.
func (a *Attrs) GetI64(name string) (int64, bool) {
	e, ok := a.typed(name, AttrI64)
	return int64(e.num), ok
}

// GetF32 returns a 32-bit float attribute by name.
func (a *Attrs) GetF32(name string) (float32, bool) {
	e, ok := a.typed(name, AttrF32)
	return math.Float32frombits(uint32(e.num)), ok
}

// GetF64 returns a 64-bit float attribute by name.
func (a *Attrs) GetF64(name string) (float64, bool) {
	e, ok := a.typed(name, AttrF64)
	return math.Float64frombits(e.num), ok
}

// GetString returns a string attribute by name.
func (a *Attrs) GetString(name string) (string, bool) {
	e, ok := a.typed(name, AttrString)
	return e.str, ok
}

// GetShape returns a dimension-list attribute by name. The caller must not
// mutate the returned slice.
func (a *Attrs) GetShape(name string) ([]int64, bool) {
	e, ok := a.typed(name, AttrShape)
	return e.dims, ok
}

// GetHandle returns a facility-handle attribute by name.
func (a *Attrs) GetHandle(name string) (resource.Handle, bool) {
	e, ok := a.typed(name, AttrHandle)
	return resource.Handle(e.num), ok
}

// Each visits attributes in canonical order; return false to stop.
func (a *Attrs) Each(fn func(Attr) bool) {
	if a == nil {
		return
	}
	for _, e := range a.entries {
		if !fn(e) {
			return
		}
	}
}
