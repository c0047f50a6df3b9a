package testbed

import (
	"time"

	gmath "github.com/spaghettifunk/gamebase/engine/math"
	"github.com/spaghettifunk/gamebase/engine/objects"
)

// NewSampleDesign builds a small main menu using every registered object
// type.
func NewSampleDesign() *objects.LinearLayout {
	title := objects.NewLabel("Gamebase")
	title.SetName("title")
	title.Position = gmath.NewVec2(0, 120)
	title.Color = gmath.NewColor(0.9, 0.8, 0.1, 1)
	title.FontSize = 32

	play := objects.NewAnimatedButton(
		objects.NewFilledRect(gmath.NewBoundingBox(160, 40), gmath.NewColor(0.2, 0.6, 0.2, 1)),
		&objects.SmoothChange{Property: "alpha", From: 0, To: 1, Duration: 250 * time.Millisecond, Func: objects.EaseOut},
	)
	play.SetName("play")
	play.Position = gmath.NewShiftTransform2(gmath.NewVec2(0, 40))

	sound := objects.NewCheckBox(objects.NewTextureRect("images/checkbox.png", gmath.NewBoundingBox(24, 24)))
	sound.SetName("sound")
	sound.Checked = true
	sound.Group = 1

	background := objects.NewGroupLayer()
	background.SetName("background")
	background.Set(0, objects.NewTextureRect("images/background.png", gmath.NewBoundingBox(1280, 720)))
	background.Set(1, objects.NewFilledRect(gmath.NewBoundingBox(400, 300), gmath.NewColor(0, 0, 0, 0.5)))

	texts := objects.NewTextBank()
	texts.Texts["menu.play"] = "Play"
	texts.Texts["menu.sound"] = "Sound"

	menu := objects.NewLinearLayout(objects.Vertical, background, title, play, sound, texts)
	menu.SetName("menu")
	menu.Padding = 12
	menu.AdjustSize = true
	return menu
}
