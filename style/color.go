package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHex converts an RGB hex code such as "#E69F00" (leading # optional)
// into an opaque colour.
func ParseHex(colorCode string) (color.NRGBA, error) {
	colorCode = strings.TrimPrefix(strings.TrimSpace(colorCode), "#")

	if len(colorCode) == 3 {
		colorCode = string([]byte{
			colorCode[0], colorCode[0],
			colorCode[1], colorCode[1],
			colorCode[2], colorCode[2],
		})
	}

	if len(colorCode) != 6 {
		return color.NRGBA{}, fmt.Errorf("color code %q is not a 3 or 6 digit hex value", colorCode)
	}

	// Parse each channel
	r, err := strconv.ParseUint(colorCode[0:2], 16, 8)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := strconv.ParseUint(colorCode[2:4], 16, 8)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := strconv.ParseUint(colorCode[4:6], 16, 8)
	if err != nil {
		return color.NRGBA{}, err
	}

	return color.NRGBA{
		R: uint8(r),
		G: uint8(g),
		B: uint8(b),
		A: 255,
	}, nil
}

// WithAlpha returns c with its opacity replaced by alpha in [0, 1].
func WithAlpha(c color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	n.A = uint8(alpha*255 + 0.5)
	return n
}

// lookup resolves a name through a hex map, falling back to the configured
// fallback colour and finally to mid grey.
func (c Config) lookup(m map[string]string, name string) color.NRGBA {
	if hex, ok := m[name]; ok {
		if col, err := ParseHex(hex); err == nil {
			return col
		}
	}
	if col, err := ParseHex(c.FallbackColor); err == nil {
		return col
	}
	return color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 255}
}

// ConditionColor returns the fill colour of a treatment condition.
func (c Config) ConditionColor(condition string) color.NRGBA {
	return c.lookup(c.ConditionColors, condition)
}

// PatientColor returns the line colour of a patient.
func (c Config) PatientColor(id string) color.NRGBA {
	return c.lookup(c.PatientColors, id)
}

// SymptomColor returns the wedge colour of a reported symptom.
func (c Config) SymptomColor(symptom string) color.NRGBA {
	return c.lookup(c.SymptomColors, symptom)
}
