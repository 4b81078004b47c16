package types

// Color is an RGB triple.
type Color [3]int

// Valid reports whether every channel is in [0, 255].
func (c Color) Valid() bool {
	for _, channel := range c {
		if channel < 0 || channel > 255 {
			return false
		}
	}
	return true
}

// ColorPalette is used for players that did not request a free color.
var ColorPalette = []Color{
	{170, 68, 101},
	{202, 137, 95},
	{85, 111, 68},
	{8, 76, 97},
	{209, 122, 34},
	{67, 87, 173},
	{148, 168, 154},
	{109, 159, 113},
	{87, 61, 28},
}
