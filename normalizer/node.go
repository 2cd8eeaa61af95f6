package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
	"github.com/pkg/errors"
)

// Kind tags a Node as one of the three JSON shapes the walker cares about.
type Kind int

const (
	Scalar Kind = iota
	Mapping
	Sequence
)

// ScalarType distinguishes the scalar JSON values.
type ScalarType int

const (
	NullScalar ScalarType = iota
	StringScalar
	NumberScalar
	BoolScalar
)

// maxParseDepth bounds the decoder recursion. Normalize has its own, smaller
// walk bound.
const maxParseDepth = 512

// Node is one value of a decoded JSON document. Mapping keys keep the order
// they had in the document, so walks over a Node are deterministic.
type Node struct {
	Kind Kind

	keys   []string
	fields map[string]*Node
	items  []*Node

	scalarType ScalarType
	text       string
	boolean    bool
}

// Parse decodes data into a Node tree.
func Parse(data []byte) (*Node, error) {
	d := jx.DecodeBytes(data)
	n, err := decode(d, 0)
	if err != nil {
		return nil, errors.Wrap(err, "decode json payload")
	}
	return n, nil
}

// MustParse is Parse for literals in tests and fixtures, it panics on error.
func MustParse(s string) *Node {
	n, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return n
}

func decode(d *jx.Decoder, depth int) (*Node, error) {
	if depth > maxParseDepth {
		return nil, errors.Errorf("json nesting deeper than %d", maxParseDepth)
	}
	switch d.Next() {
	case jx.Object:
		n := &Node{Kind: Mapping, fields: map[string]*Node{}}
		err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			v, err := decode(d, depth+1)
			if err != nil {
				return err
			}
			n.set(string(key), v)
			return nil
		})
		return n, err
	case jx.Array:
		n := &Node{Kind: Sequence, items: []*Node{}}
		err := d.Arr(func(d *jx.Decoder) error {
			v, err := decode(d, depth+1)
			if err != nil {
				return err
			}
			n.items = append(n.items, v)
			return nil
		})
		return n, err
	case jx.String:
		s, err := d.Str()
		return &Node{Kind: Scalar, scalarType: StringScalar, text: s}, err
	case jx.Number:
		num, err := d.Num()
		return &Node{Kind: Scalar, scalarType: NumberScalar, text: num.String()}, err
	case jx.Bool:
		b, err := d.Bool()
		return &Node{Kind: Scalar, scalarType: BoolScalar, boolean: b}, err
	case jx.Null:
		return &Node{Kind: Scalar, scalarType: NullScalar}, d.Null()
	default:
		return nil, errors.New("unexpected json token")
	}
}

// set keeps the first position of a duplicated key and the last value, like
// most JSON decoders.
func (n *Node) set(key string, v *Node) {
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
}

func (n *Node) IsMapping() bool  { return n != nil && n.Kind == Mapping }
func (n *Node) IsSequence() bool { return n != nil && n.Kind == Sequence }
func (n *Node) IsScalar() bool   { return n != nil && n.Kind == Scalar }

// IsNull is true for a JSON null and for a nil Node, i.e. a missing key.
func (n *Node) IsNull() bool {
	return n == nil || (n.Kind == Scalar && n.scalarType == NullScalar)
}

// Get returns the value under key, nil when n is not a mapping or lacks key.
func (n *Node) Get(key string) *Node {
	if !n.IsMapping() {
		return nil
	}
	return n.fields[key]
}

// Keys returns mapping keys in document order.
func (n *Node) Keys() []string {
	if !n.IsMapping() {
		return nil
	}
	return n.keys
}

// Values returns mapping values in document order.
func (n *Node) Values() []*Node {
	if !n.IsMapping() {
		return nil
	}
	values := make([]*Node, 0, len(n.keys))
	for _, k := range n.keys {
		values = append(values, n.fields[k])
	}
	return values
}

// Items returns the elements of a sequence.
func (n *Node) Items() []*Node {
	if !n.IsSequence() {
		return nil
	}
	return n.items
}

// Len is the number of keys or elements, 0 for scalars.
func (n *Node) Len() int {
	switch {
	case n.IsMapping():
		return len(n.keys)
	case n.IsSequence():
		return len(n.items)
	}
	return 0
}

// Text returns the value of a string scalar or the literal of a number
// scalar.
func (n *Node) Text() (string, bool) {
	if !n.IsScalar() {
		return "", false
	}
	switch n.scalarType {
	case StringScalar, NumberScalar:
		return n.text, true
	}
	return "", false
}

// String returns the value of a string scalar only.
func (n *Node) String() (string, bool) {
	if !n.IsScalar() || n.scalarType != StringScalar {
		return "", false
	}
	return n.text, true
}

// Int64 returns a number scalar as an integer, truncating a fractional part.
func (n *Node) Int64() (int64, bool) {
	if !n.IsScalar() || n.scalarType != NumberScalar {
		return 0, false
	}
	if i, err := strconv.ParseInt(n.text, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(n.text, 64)
	// float64(MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Float64 returns a number scalar, or a string scalar holding a number, as a
// float.
func (n *Node) Float64() (float64, bool) {
	if !n.IsScalar() {
		return 0, false
	}
	switch n.scalarType {
	case NumberScalar, StringScalar:
		f, err := strconv.ParseFloat(strings.TrimSpace(n.text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Bool returns a bool scalar.
func (n *Node) Bool() (bool, bool) {
	if !n.IsScalar() || n.scalarType != BoolScalar {
		return false, false
	}
	return n.boolean, true
}

// Truthy follows the usual JSON-ish notion: null, "", 0, false and empty
// containers are false.
func (n *Node) Truthy() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case Mapping, Sequence:
		return n.Len() > 0
	}
	switch n.scalarType {
	case StringScalar:
		return n.text != ""
	case NumberScalar:
		f, ok := n.Float64()
		return ok && f != 0
	case BoolScalar:
		return n.boolean
	}
	return false
}

// Interface converts n into the values encoding/json produces with
// UseNumber: map[string]interface{}, []interface{}, string, json.Number, bool
// or nil.
func (n *Node) Interface() interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Mapping:
		m := make(map[string]interface{}, len(n.keys))
		for _, k := range n.keys {
			m[k] = n.fields[k].Interface()
		}
		return m
	case Sequence:
		s := make([]interface{}, 0, len(n.items))
		for _, it := range n.items {
			s = append(s, it.Interface())
		}
		return s
	}
	switch n.scalarType {
	case StringScalar:
		return n.text
	case NumberScalar:
		return json.Number(n.text)
	case BoolScalar:
		return n.boolean
	}
	return nil
}

// Encode writes n back as JSON, keeping key order.
func (n *Node) Encode(e *jx.Encoder) {
	if n == nil {
		e.Null()
		return
	}
	switch n.Kind {
	case Mapping:
		e.ObjStart()
		for _, k := range n.keys {
			e.FieldStart(k)
			n.fields[k].Encode(e)
		}
		e.ObjEnd()
		return
	case Sequence:
		e.ArrStart()
		for _, it := range n.items {
			it.Encode(e)
		}
		e.ArrEnd()
		return
	}
	switch n.scalarType {
	case StringScalar:
		e.Str(n.text)
	case NumberScalar:
		e.Num(jx.Num(n.text))
	case BoolScalar:
		e.Bool(n.boolean)
	default:
		e.Null()
	}
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	n.Encode(&e)
	return e.Bytes(), nil
}
