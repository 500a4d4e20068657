package raw

// NameObj is a PDF name, stored without the leading slash.
type NameObj struct{ Val string }

func (NameObj) Type() string       { return "name" }
func (NameObj) IsIndirect() bool   { return false }
func (n NameObj) Value() string    { return n.Val }
func NameLiteral(v string) NameObj { return NameObj{Val: v} }

// NumberObj is an integer or real number.
type NumberObj struct {
	I     int64
	F     float64
	IsInt bool
}

func (NumberObj) Type() string        { return "number" }
func (NumberObj) IsIndirect() bool    { return false }
func (n NumberObj) Int() int64        { return n.I }
func (n NumberObj) IsInteger() bool   { return n.IsInt }
func NumberInt(i int64) NumberObj     { return NumberObj{I: i, IsInt: true} }
func NumberFloat(f float64) NumberObj { return NumberObj{F: f} }

func (n NumberObj) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}

// NullObj is the null object; Document.Reserve uses it as a placeholder.
type NullObj struct{}

func (NullObj) Type() string     { return "null" }
func (NullObj) IsIndirect() bool { return false }

// StringObj is a literal or hexadecimal string.
type StringObj struct {
	Bytes []byte
	Hex   bool
}

func (StringObj) Type() string     { return "string" }
func (StringObj) IsIndirect() bool { return false }
func (s StringObj) Value() []byte  { return s.Bytes }
func (s StringObj) IsHex() bool    { return s.Hex }
func Str(b []byte) StringObj       { return StringObj{Bytes: b} }
func HexStr(b []byte) StringObj    { return StringObj{Bytes: b, Hex: true} }

// ArrayObj is an ordered list of objects.
type ArrayObj struct{ Items []Object }

func (*ArrayObj) Type() string           { return "array" }
func (*ArrayObj) IsIndirect() bool       { return false }
func (a *ArrayObj) Append(o Object)      { a.Items = append(a.Items, o) }
func NewArray(items ...Object) *ArrayObj { return &ArrayObj{Items: items} }

// DictObj maps name keys, stored without the slash, to objects. The writer
// serializes keys in sorted order.
type DictObj struct{ KV map[string]Object }

func (*DictObj) Type() string     { return "dict" }
func (*DictObj) IsIndirect() bool { return false }
func Dict() *DictObj              { return &DictObj{KV: make(map[string]Object)} }

func (d *DictObj) Get(key string) (Object, bool) {
	o, ok := d.KV[key]
	return o, ok
}

// Put sets key and returns d for chaining.
func (d *DictObj) Put(key string, value Object) *DictObj {
	if d.KV == nil {
		d.KV = make(map[string]Object)
	}
	d.KV[key] = value
	return d
}

// StreamObj is a dictionary followed by already-encoded data.
type StreamObj struct {
	Dict *DictObj
	Data []byte
}

func (*StreamObj) Type() string                       { return "stream" }
func (*StreamObj) IsIndirect() bool                   { return false }
func NewStream(dict *DictObj, data []byte) *StreamObj { return &StreamObj{Dict: dict, Data: data} }

// RefObj points at an indirect object.
type RefObj struct{ R ObjectRef }

func (RefObj) Type() string     { return "ref" }
func (RefObj) IsIndirect() bool { return true }
func (r RefObj) Ref() ObjectRef { return r.R }
func RefTo(r ObjectRef) RefObj  { return RefObj{R: r} }
