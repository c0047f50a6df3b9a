package editor

import (
	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/spaghettifunk/gamebase/engine/serial"
)

// DesignModel is the editable JSON document behind the property panels.
// A DesignViewBuilder writes into it while building, recording the path of
// every row; edits are then applied in place and the design is decoded
// back from the document.
type DesignModel struct {
	w   *serial.JSONWriter
	doc []byte
}

func NewDesignModel() *DesignModel {
	m := &DesignModel{}
	m.Clear()
	return m
}

func (m *DesignModel) writer() serial.Writer {
	return m.w
}

// Path returns the path of the last value written by the builder.
func (m *DesignModel) Path() string {
	return m.w.Path()
}

// Location returns the positional address of the last value written.
func (m *DesignModel) Location() serial.Location {
	return m.w.Location()
}

// Finish seals the document once the builder is done.
func (m *DesignModel) Finish() error {
	doc, err := m.w.Bytes()
	if err != nil {
		return err
	}
	m.doc = doc
	return nil
}

// JSON returns the current document.
func (m *DesignModel) JSON() []byte {
	return m.doc
}

func (m *DesignModel) Clear() {
	m.w = serial.NewJSONWriter(serial.Legacy, 0)
	m.doc = nil
}

// Get returns the raw value at path.
func (m *DesignModel) Get(path string) (string, bool) {
	r := gjson.GetBytes(m.doc, path)
	if !r.Exists() {
		return "", false
	}
	if r.Type == gjson.String {
		return r.Str, true
	}
	return r.Raw, true
}

// Set validates text for row and stores it in the document and the row.
func (m *DesignModel) Set(row *PropertyRow, text string) error {
	if m.doc == nil {
		return errors.New("design model is not finished")
	}
	if row.Path == "" && len(row.Location) == 0 {
		return errors.Newf("property %s is not bound to the model", row.Label)
	}
	canonical, err := row.Type.Parse(text)
	if err != nil {
		return errors.Wrapf(err, "can't set property %s", row.Label)
	}
	raw := []byte(canonical)
	if row.Type == String {
		if raw, err = jsoniter.Marshal(canonical); err != nil {
			return errors.Wrapf(err, "can't encode property %s", row.Label)
		}
	}
	var doc []byte
	if len(row.Location) > 0 {
		doc, err = serial.Replace(m.doc, row.Location, raw)
	} else {
		doc, err = sjson.SetRawBytes(m.doc, row.Path, raw)
	}
	if err != nil {
		return errors.Wrapf(err, "can't set property %s at %s", row.Label, row.Path)
	}
	m.doc = doc
	row.Text = canonical
	return nil
}
