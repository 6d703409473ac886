package parser

import (
	"bytes"
	"encoding/xml"
	"io"
	"math"
	"strconv"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

// Theme holds the color scheme of a presentation theme keyed by slot name
// (dk1, lt1, dk2, lt2, accent1..accent6, hlink, folHlink).
type Theme struct {
	Colors map[string]models.RGB
}

// schemeAliases maps the default master color map onto theme slots.
var schemeAliases = map[string]string{
	"bg1": "lt1",
	"tx1": "dk1",
	"bg2": "lt2",
	"tx2": "dk2",
}

// Lookup resolves a scheme color name such as "bg1" or "accent3".
func (t *Theme) Lookup(name string) (models.RGB, bool) {
	if t == nil {
		return models.RGB{}, false
	}
	if alias, ok := schemeAliases[name]; ok {
		name = alias
	}
	c, ok := t.Colors[name]
	return c, ok
}

// parseTheme reads the a:clrScheme of a theme part.
func parseTheme(data []byte) (*Theme, error) {
	theme := &Theme{Colors: make(map[string]models.RGB)}
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "clrScheme" {
			continue
		}
		if err := parseColorScheme(decoder, theme); err != nil {
			return nil, err
		}
		break
	}

	return theme, nil
}

func parseColorScheme(decoder *xml.Decoder, theme *Theme) error {
	for {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			slot := t.Name.Local
			c, err := parseColorContainer(decoder, nil)
			if err != nil {
				return err
			}
			if c != nil {
				theme.Colors[slot] = *c
			}
		case xml.EndElement:
			return nil
		}
	}
}

// parseColorContainer consumes an element holding one color choice
// (a:solidFill, or a theme slot such as a:dk1) and returns the resolved color.
func parseColorContainer(decoder *xml.Decoder, theme *Theme) (*models.RGB, error) {
	var result *models.RGB
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			c, err := parseColor(decoder, t, theme)
			if err != nil {
				return nil, err
			}
			if result == nil {
				result = c
			}
		case xml.EndElement:
			return result, nil
		}
	}
}

// parseColor consumes one color element (srgbClr, schemeClr, sysClr, prstClr)
// together with its transform children.
func parseColor(decoder *xml.Decoder, start xml.StartElement, theme *Theme) (*models.RGB, error) {
	var base *models.RGB
	switch start.Name.Local {
	case "srgbClr":
		if c, ok := parseHexColor(attrValue(start, "val")); ok {
			base = &c
		}
	case "sysClr":
		if c, ok := parseHexColor(attrValue(start, "lastClr")); ok {
			base = &c
		}
	case "schemeClr":
		if c, ok := theme.Lookup(attrValue(start, "val")); ok {
			base = &c
		}
	case "prstClr":
		if c, ok := presetColors[attrValue(start, "val")]; ok {
			base = &c
		}
	}

	var mods []colorTransform
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if v, err := strconv.Atoi(attrValue(t, "val")); err == nil {
				mods = append(mods, colorTransform{name: t.Name.Local, val: float64(v) / 100000})
			}
			if err := decoder.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if base == nil {
				return nil, nil
			}
			c := applyTransforms(*base, mods)
			return &c, nil
		}
	}
}

var presetColors = map[string]models.RGB{
	"black":     {R: 0, G: 0, B: 0},
	"white":     {R: 255, G: 255, B: 255},
	"gray":      {R: 128, G: 128, B: 128},
	"grey":      {R: 128, G: 128, B: 128},
	"silver":    {R: 192, G: 192, B: 192},
	"lightGray": {R: 211, G: 211, B: 211},
	"darkGray":  {R: 169, G: 169, B: 169},
	"red":       {R: 255, G: 0, B: 0},
	"green":     {R: 0, G: 128, B: 0},
	"yellow":    {R: 255, G: 255, B: 0},
	"blue":      {R: 0, G: 0, B: 255},
}

type colorTransform struct {
	name string
	val  float64
}

// applyTransforms applies the DrawingML color transforms that affect lightness.
// Others (alpha, satMod, hueOff, ...) do not change whether a fill reads as grey.
func applyTransforms(c models.RGB, mods []colorTransform) models.RGB {
	for _, m := range mods {
		switch m.name {
		case "lumMod", "lumOff":
			h, s, l := rgbToHSL(c)
			if m.name == "lumMod" {
				l *= m.val
			} else {
				l += m.val
			}
			c = hslToRGB(h, s, clamp01(l))
		case "shade":
			c = models.RGB{R: scale(c.R, m.val), G: scale(c.G, m.val), B: scale(c.B, m.val)}
		case "tint":
			c = models.RGB{R: tint(c.R, m.val), G: tint(c.G, m.val), B: tint(c.B, m.val)}
		}
	}
	return c
}

func scale(v uint8, f float64) uint8 {
	return uint8(math.Round(clamp01(float64(v)/255*f) * 255))
}

func tint(v uint8, f float64) uint8 {
	x := float64(v) / 255
	return uint8(math.Round(clamp01(x*f+(1-f)) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func rgbToHSL(c models.RGB) (h, s, l float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l = (maxC + minC) / 2
	if maxC == minC {
		return 0, 0, l
	}
	d := maxC - minC
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) models.RGB {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return models.RGB{R: v, G: v, B: v}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return models.RGB{
		R: uint8(math.Round(hueToRGB(p, q, h+1.0/3) * 255)),
		G: uint8(math.Round(hueToRGB(p, q, h) * 255)),
		B: uint8(math.Round(hueToRGB(p, q, h-1.0/3) * 255)),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// parseHexColor parses an RRGGBB string.
func parseHexColor(s string) (models.RGB, bool) {
	if len(s) != 6 {
		return models.RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return models.RGB{}, false
	}
	return models.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
