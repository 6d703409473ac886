package matrix

import (
	"strings"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

// GreyThresholds tunes what counts as a visually grey fill. Templates with a
// different separator shade adjust these instead of the classifier.
type GreyThresholds struct {
	// ChannelTolerance is the exclusive upper bound on |R-G|, |R-B| and |G-B|.
	ChannelTolerance uint8 `json:"channel_tolerance" yaml:"channel_tolerance"`
	// MinBrightness is the inclusive lower bound on the mean channel value.
	MinBrightness uint8 `json:"min_brightness" yaml:"min_brightness"`
	// MaxBrightness is the inclusive upper bound on the mean channel value.
	MaxBrightness uint8 `json:"max_brightness" yaml:"max_brightness"`
}

// DefaultGreyThresholds returns thresholds that accept mid greys such as
// 808080 and D9D9D9 but reject white, black and saturated colors.
func DefaultGreyThresholds() GreyThresholds {
	return GreyThresholds{
		ChannelTolerance: 10,
		MinBrightness:    80,
		MaxBrightness:    230,
	}
}

// IsGrey reports whether c is a neutral mid-range grey.
func (g GreyThresholds) IsGrey(c models.RGB) bool {
	r, gr, b := int(c.R), int(c.G), int(c.B)
	tol := int(g.ChannelTolerance)
	if absInt(r-gr) >= tol || absInt(r-b) >= tol || absInt(gr-b) >= tol {
		return false
	}
	mean := (r + gr + b) / 3
	return mean >= int(g.MinBrightness) && mean <= int(g.MaxBrightness)
}

// IsGreySeparator reports whether every cell of row is blank and at least one
// cell has a grey solid fill.
func (g GreyThresholds) IsGreySeparator(row models.TableRow) bool {
	grey := false
	for _, cell := range row.Cells {
		if strings.TrimSpace(cell.Text) != "" {
			return false
		}
		if cell.Fill != nil && g.IsGrey(*cell.Fill) {
			grey = true
		}
	}
	return grey
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
