package editor

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/spaghettifunk/gamebase/engine/serial"
)

type PrimitiveType int

const (
	Float PrimitiveType = iota
	Double
	Int
	UInt
	Int64
	UInt64
	Bool
	String
)

var primitiveNames = [...]string{
	Float:  "float",
	Double: "double",
	Int:    "int",
	UInt:   "unsigned int",
	Int64:  "int64",
	UInt64: "unsigned int64",
	Bool:   "boolean",
	String: "string",
}

func (t PrimitiveType) String() string {
	if t < 0 || int(t) >= len(primitiveNames) {
		return "unknown"
	}
	return primitiveNames[t]
}

// Parse validates text as a value of type t and returns its canonical text.
func (t PrimitiveType) Parse(text string) (string, error) {
	var err error
	switch t {
	case Float, Double:
		bits := lo.Ternary(t == Float, 32, 64)
		var f float64
		if f, err = strconv.ParseFloat(text, bits); err == nil {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return "", errors.Newf("%q is not a finite %s", text, t)
			}
			return strconv.FormatFloat(f, 'g', -1, bits), nil
		}
	case Int, Int64:
		bits := lo.Ternary(t == Int, 32, 64)
		var i int64
		if i, err = strconv.ParseInt(text, 10, bits); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
	case UInt, UInt64:
		bits := lo.Ternary(t == UInt, 32, 64)
		var u uint64
		if u, err = strconv.ParseUint(text, 10, bits); err == nil {
			return strconv.FormatUint(u, 10), nil
		}
	case Bool:
		var b bool
		if b, err = strconv.ParseBool(text); err == nil {
			return strconv.FormatBool(b), nil
		}
	case String:
		return text, nil
	default:
		return "", errors.Newf("unknown primitive type %d", int(t))
	}
	return "", errors.Wrapf(err, "%q is not a valid %s", text, t)
}

// PropertyRow is one label and editable text field of a panel.
type PropertyRow struct {
	Label string
	Type  PrimitiveType
	Text  string
	// Path locates the value in the design model, empty when unbound.
	Path string
	// Location pins the exact member when Path is ambiguous, e.g. when an
	// object repeats a member name.
	Location serial.Location
}

// Panel lists the rows of one tree node.
type Panel struct {
	ID   int
	Rows []*PropertyRow
}

// Row returns the first row labelled label.
func (p *Panel) Row(label string) (*PropertyRow, bool) {
	return lo.Find(p.Rows, func(r *PropertyRow) bool { return r.Label == label })
}

// PropertiesMenu maps tree node ids to their property panels; one panel
// at a time is selected.
type PropertiesMenu struct {
	panels   map[int]*Panel
	selected int
}

func NewPropertiesMenu() *PropertiesMenu {
	return &PropertiesMenu{panels: make(map[int]*Panel), selected: -1}
}

// AddObject creates the panel of node id, or returns the existing one.
func (m *PropertiesMenu) AddObject(id int) *Panel {
	if p, ok := m.panels[id]; ok {
		return p
	}
	p := &Panel{ID: id}
	m.panels[id] = p
	return p
}

func (m *PropertiesMenu) Panel(id int) (*Panel, bool) {
	p, ok := m.panels[id]
	return p, ok
}

func (m *PropertiesMenu) Select(id int) error {
	if _, ok := m.panels[id]; !ok {
		return errors.Newf("no properties panel for node #%d", id)
	}
	m.selected = id
	return nil
}

func (m *PropertiesMenu) Selected() (*Panel, bool) {
	p, ok := m.panels[m.selected]
	return p, ok
}

func (m *PropertiesMenu) Remove(id int) {
	delete(m.panels, id)
	if m.selected == id {
		m.selected = -1
	}
}

func (m *PropertiesMenu) Clear() {
	m.panels = make(map[int]*Panel)
	m.selected = -1
}

// Rows returns the total number of rows over all panels.
func (m *PropertiesMenu) Rows() int {
	return lo.SumBy(lo.Values(m.panels), func(p *Panel) int { return len(p.Rows) })
}
