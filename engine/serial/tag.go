package serial

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Tag marks how a nested array of fields is to be interpreted.
type Tag int

const (
	TagScalar Tag = iota
	TagArray
	TagKeys
	TagValues
	TagMap
	TagVec2
	TagMatrix2
	TagTransform2
	TagBoundingBox
	TagColor
)

var tagNames = [...]string{
	TagScalar:      "Scalar",
	TagArray:       "Array",
	TagKeys:        "Keys",
	TagValues:      "Values",
	TagMap:         "Map",
	TagVec2:        "Vec2",
	TagMatrix2:     "Matrix2",
	TagTransform2:  "Transform2",
	TagBoundingBox: "BoundingBox",
	TagColor:       "Color",
}

// component names of the fixed-shape primitives, in wire order
var tagSuffixes = map[Tag][]string{
	TagVec2:        {".x", ".y"},
	TagMatrix2:     {"[0, 0]", "[0, 1]", "[1, 0]", "[1, 1]"},
	TagTransform2:  {".m[0, 0]", ".m[0, 1]", ".m[1, 0]", ".m[1, 1]", ".tx", ".ty"},
	TagBoundingBox: {".left", ".bottom", ".right", ".top"},
	TagColor:       {".r", ".g", ".b", ".a"},
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

// IsPrimitive reports whether t is one of the fixed-shape geometric tags.
func (t Tag) IsPrimitive() bool {
	return t >= TagVec2 && t <= TagColor
}

// Size returns the number of float components of a primitive tag, 0 otherwise.
func (t Tag) Size() int {
	return len(tagSuffixes[t])
}

// Suffix returns the display suffix of component i of a primitive tag.
func (t Tag) Suffix(i int) (string, bool) {
	s := tagSuffixes[t]
	if i < 0 || i >= len(s) {
		return "", false
	}
	return s[i], true
}

// Version selects the on-wire shape of collections.
type Version int

const (
	Legacy  Version = 2
	Current Version = 3
)

func (v Version) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case Current:
		return "current"
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

func (v Version) Valid() bool {
	return v == Legacy || v == Current
}

// ParseVersion accepts "legacy" or "current".
func ParseVersion(s string) (Version, error) {
	switch s {
	case "legacy":
		return Legacy, nil
	case "current", "":
		return Current, nil
	}
	return 0, errors.Newf("unknown serialization version %q", s)
}

// Reserved member names.
const (
	VersionField  = "_version"
	TypeField     = "_type"
	EmptyField    = "_empty"
	SizeField     = "_size"
	ElementsField = "_elements"
	KeysField     = "_keys"
	ValuesField   = "_values"
	KeyField      = "_key"
	ValueField    = "_value"
	NameField     = "_name"
	VisibleField  = "_visible"
)
