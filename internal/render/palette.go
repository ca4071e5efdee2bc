package render

import (
	"image/color"
	"strings"
)

// HighwayOrder is the class hierarchy, busiest first. Anything outside
// the list renders as "other".
var HighwayOrder = []string{
	"motorway", "trunk", "primary", "secondary",
	"tertiary", "unclassified", "residential", "service",
}

// OtherClass labels the catch-all legend entry.
const OtherClass = "other"

// classColors samples a reversed inferno ramp, one step per class plus
// the catch-all: bright yellow for motorways down to near-black.
var classColors = []color.NRGBA{
	{0xfc, 0xff, 0xa4, 0xff}, // motorway
	{0xfb, 0x9b, 0x06, 0xff}, // trunk
	{0xed, 0x69, 0x25, 0xff}, // primary
	{0xcf, 0x44, 0x46, 0xff}, // secondary
	{0xa5, 0x2c, 0x60, 0xff}, // tertiary
	{0x78, 0x1c, 0x6d, 0xff}, // unclassified
	{0x4a, 0x0c, 0x6b, 0xff}, // residential
	{0x1b, 0x0c, 0x41, 0xff}, // service
	{0x00, 0x00, 0x04, 0xff}, // other
}

// ClassIndex maps a highway tag to its palette slot. Link roads count
// as their parent class.
func ClassIndex(class string) int {
	c := strings.TrimSuffix(class, "_link")
	for i, name := range HighwayOrder {
		if name == c {
			return i
		}
	}
	return len(HighwayOrder)
}

func classLabel(i int) string {
	if i < len(HighwayOrder) {
		return HighwayOrder[i]
	}
	return OtherClass
}
