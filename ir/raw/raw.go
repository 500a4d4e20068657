// Package raw is the low-level PDF object model the writer serializes.
package raw

import (
	"fmt"
	"sort"
)

// ObjectRef uniquely identifies an indirect PDF object.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// Object is implemented by every raw PDF object.
type Object interface {
	Type() string
	IsIndirect() bool
}

// String is implemented by literal and hexadecimal strings.
type String interface {
	Object
	Value() []byte
	IsHex() bool
}

// Document is the flat set of indirect objects making up one file.
type Document struct {
	Objects map[ObjectRef]Object
	Trailer *DictObj
	Version string
}

// NewDocument returns an empty document for the given header version.
func NewDocument(version string) *Document {
	return &Document{Objects: make(map[ObjectRef]Object), Version: version}
}

// Add stores obj under the next free object number and returns its reference.
func (d *Document) Add(obj Object) ObjectRef {
	ref := ObjectRef{Num: len(d.Objects) + 1}
	d.Objects[ref] = obj
	return ref
}

// Reserve allocates an object number before its object exists, for parents
// that must be referenced by their children.
func (d *Document) Reserve() ObjectRef {
	return d.Add(NullObj{})
}

// Set replaces the object stored under ref.
func (d *Document) Set(ref ObjectRef, obj Object) { d.Objects[ref] = obj }

// Refs lists object references in ascending object-number order.
func (d *Document) Refs() []ObjectRef {
	out := make([]ObjectRef, 0, len(d.Objects))
	for ref := range d.Objects {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return out
}
