package viz

// Colors is the line and text color palette.
var Colors = []string{
	"#3E72E7",
	"#18AB6D",
	"#7A4CE0",
	"#E149A0",
	"#E43D3D",
	"#E8853D",
	"#0394B4",
	"#729B1B",
}

// StrokeStyles are SVG dash patterns for lines.
var StrokeStyles = []string{
	"none",
	"5 5",
	"10 5 5 5",
	"10 5 5 5 5 5",
	"10 5 5 5 5 5 5 5",
	"20 5 10 5",
	"20 5 10 5 10 5",
	"20 5 10 5 10 5 5 5",
	"20 5 10 5 5 5 5 5",
}

// ColorAt returns the palette color for a group order.
func ColorAt(order int) string {
	return Colors[wrap(order, len(Colors))]
}

// StrokeAt returns the dash pattern for a group order.
func StrokeAt(order int) string {
	return StrokeStyles[wrap(order, len(StrokeStyles))]
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
