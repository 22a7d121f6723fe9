package keymap

import (
	"github.com/valerio/go-dualrole/dualrole/dance"
	kc "github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

var (
	spcNav  = Dance(dance.SpaceNav)
	bspcNum = Dance(dance.BackspaceNum)
)

// BaseGrid is a QWERTY base layer with the two dual-role thumb keys.
var BaseGrid = Grid{
	Key(kc.Q), Key(kc.W), Key(kc.E), Key(kc.R), Key(kc.T), Key(kc.Y), Key(kc.U), Key(kc.I), Key(kc.O), Key(kc.P),
	Key(kc.A), Key(kc.S), Key(kc.D), Key(kc.F), Key(kc.G), Key(kc.H), Key(kc.J), Key(kc.K), Key(kc.L), Key(kc.Quote),
	Key(kc.Z), Key(kc.X), Key(kc.C), Key(kc.V), Key(kc.B), Key(kc.N), Key(kc.M), Key(kc.Comma), Key(kc.Dot), Key(kc.Slash),
	XXX, XXX, Key(kc.Escape), spcNav, Key(kc.Tab), Key(kc.Enter), bspcNum, Key(kc.Delete), XXX, XXX,
}

// NavGrid puts arrows and editing keys under the right hand. The thumb that
// holds the layer stays transparent.
var NavGrid = Grid{
	XXX, XXX, XXX, XXX, XXX, Key(kc.Again), Key(kc.Paste), Key(kc.Copy), Key(kc.Cut), Key(kc.Undo),
	Key(kc.LeftGUI), Key(kc.LeftAlt), Key(kc.LeftCtrl), Key(kc.LeftShift), XXX, Key(kc.Left), Key(kc.Down), Key(kc.Up), Key(kc.Right), Key(kc.CapsLock),
	XXX, Key(kc.RightAlt), XXX, XXX, XXX, Key(kc.Home), Key(kc.PageDown), Key(kc.PageUp), Key(kc.End), Key(kc.Insert),
	XXX, XXX, XXX, ___, XXX, Key(kc.Enter), Key(kc.Backspace), Key(kc.Delete), XXX, XXX,
}

// NumGrid is a number pad under the left hand.
var NumGrid = Grid{
	Key(kc.LeftBracket), Key(kc.Num7), Key(kc.Num8), Key(kc.Num9), Key(kc.RightBracket), XXX, XXX, XXX, XXX, XXX,
	Key(kc.Semicolon), Key(kc.Num4), Key(kc.Num5), Key(kc.Num6), Key(kc.Equal), XXX, Key(kc.LeftShift), Key(kc.LeftCtrl), Key(kc.LeftAlt), Key(kc.LeftGUI),
	Key(kc.Grave), Key(kc.Num1), Key(kc.Num2), Key(kc.Num3), Key(kc.Backslash), XXX, XXX, XXX, Key(kc.RightAlt), XXX,
	XXX, XXX, Key(kc.Dot), Key(kc.Num0), Key(kc.Minus), XXX, ___, XXX, XXX, XXX,
}

// Default returns the stock keymap: base, nav and num layers.
func Default() *Keymap {
	k := New()
	k.Set(layer.Base, Miryoku(BaseGrid))
	k.Set(layer.Nav, Miryoku(NavGrid))
	k.Set(layer.Num, Miryoku(NumGrid))
	return k
}
