package objects

import "github.com/spaghettifunk/gamebase/engine/serial"

func init() {
	serial.RegisterType("Label", deserializeLabel)
	serial.RegisterType("FilledRect", deserializeFilledRect)
	serial.RegisterType("TextureRect", deserializeTextureRect)
	serial.RegisterType("CheckBox", deserializeCheckBox)
	serial.RegisterType("LinearLayout", deserializeLinearLayout)
	serial.RegisterType("GroupLayer", deserializeGroupLayer)
	serial.RegisterType("TextBank", deserializeTextBank)
	serial.RegisterType("SmoothChange", deserializeSmoothChange)

	// AnimatedButton reuses the Button tag; the plain button registered
	// last is what the tag reads back as.
	serial.RegisterType("Button", deserializeAnimatedButton)
	serial.RegisterType("Button", deserializeButton)
}
