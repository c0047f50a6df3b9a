package objects

import (
	"reflect"

	"github.com/spaghettifunk/gamebase/engine/reg"
)

// Widget is the common part of drawable, registrable scene objects.
type Widget struct {
	reg.Base
	visible bool
}

func newWidget() Widget {
	return Widget{visible: true}
}

func (w *Widget) IsVisible() bool {
	return w.visible
}

func (w *Widget) SetVisible(visible bool) {
	w.visible = visible
}

// registerChild registers a sub-object when it takes part in the property tree.
func registerChild(b *reg.Builder, name string, obj any) {
	if obj == nil {
		return
	}
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Pointer && v.IsNil() {
		return
	}
	if name == "" {
		b.RegisterObject(obj)
		return
	}
	b.RegisterObjectNamed(name, obj)
}
