package serial

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"

	"github.com/spaghettifunk/gamebase/engine/core"
)

// Step addresses one value inside its parent: element Index of an array
// when Name is empty, otherwise the Index-th member called Name.
type Step struct {
	Name  string
	Index int
}

// Location addresses a value by position, so repeated member names inside
// one object stay distinct.
type Location []Step

func (l Location) String() string {
	var b strings.Builder
	for i, s := range l {
		if i > 0 {
			b.WriteByte('.')
		}
		if s.Name == "" {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		b.WriteString(EscapePath(s.Name))
		if s.Index > 0 {
			b.WriteString("[" + strconv.Itoa(s.Index) + "]")
		}
	}
	return b.String()
}

// Locate finds the value at loc in doc. The returned result carries the
// absolute offset of the value in Index.
func Locate(doc []byte, loc Location) (gjson.Result, error) {
	cur := gjson.ParseBytes(doc)
	for _, step := range loc {
		var (
			found gjson.Result
			ok    bool
		)
		switch {
		case step.Name == "" && cur.IsArray():
			n := 0
			cur.ForEach(func(_, value gjson.Result) bool {
				if n == step.Index {
					found, ok = value, true
					return false
				}
				n++
				return true
			})
		case step.Name != "" && cur.IsObject():
			n := 0
			cur.ForEach(func(key, value gjson.Result) bool {
				if key.Str != step.Name {
					return true
				}
				if n == step.Index {
					found, ok = value, true
					return false
				}
				n++
				return true
			})
		}
		if !ok {
			return gjson.Result{}, errors.Wrapf(core.ErrMalformedWire, "nothing at %s", loc)
		}
		cur = found
	}
	return cur, nil
}

// Replace returns a copy of doc with the value at loc replaced by raw.
func Replace(doc []byte, loc Location, raw []byte) ([]byte, error) {
	r, err := Locate(doc, loc)
	if err != nil {
		return nil, err
	}
	if len(loc) > 0 && r.Index == 0 {
		return nil, errors.Newf("can't find the offset of %s", loc)
	}
	end := r.Index + len(r.Raw)
	out := make([]byte, 0, len(doc)-len(r.Raw)+len(raw))
	out = append(out, doc[:r.Index]...)
	out = append(out, raw...)
	return append(out, doc[end:]...), nil
}
