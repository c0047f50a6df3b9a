package objects

import "github.com/spaghettifunk/gamebase/engine/serial"

// TextBank maps text ids to localized strings.
type TextBank struct {
	Texts map[string]string
}

func NewTextBank() *TextBank {
	return &TextBank{Texts: make(map[string]string)}
}

// Get returns the text for id, or id itself when it is missing.
func (t *TextBank) Get(id string) string {
	if s, ok := t.Texts[id]; ok {
		return s
	}
	return id
}

func (t *TextBank) Serialize(s *serial.Serializer) {
	serial.WriteMap(s, "texts", t.Texts, (*serial.Serializer).String, (*serial.Serializer).String)
}

func deserializeTextBank(d *serial.Deserializer) (*TextBank, error) {
	t := &TextBank{Texts: serial.ReadMap(d, "texts", (*serial.Deserializer).String, (*serial.Deserializer).String)}
	return t, d.Err()
}
