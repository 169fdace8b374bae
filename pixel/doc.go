// Package pixel implements a monochrome color and image model for LED dot matrix displays.
//
// The types are compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces, and store pixels the way the display controllers expect them on the wire.
package pixel
