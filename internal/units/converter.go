// Package units converts page-margin measurements between millimeters,
// centimeters, inches, and pixels, and builds the margin guide geometry a
// surface paints from a converted spec. 96 pixels per inch is the canonical
// screen-density assumption.
package units

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

// DPI is the assumed screen density for pixel conversions.
const DPI = 96

// millimeters per unit; pixels follow from 25.4 mm per inch at 96 DPI.
var mmPerUnit = map[domain.Unit]float64{
	domain.UnitMM:   1,
	domain.UnitCM:   10,
	domain.UnitInch: 25.4,
	domain.UnitPX:   25.4 / DPI,
}

// Convert converts a value between two margin units via the millimeter table.
func Convert(value float64, from, to domain.Unit) (float64, error) {
	fromMM, ok := mmPerUnit[from]
	if !ok {
		return 0, fmt.Errorf("convert units: unknown unit %q", from)
	}
	toMM, ok := mmPerUnit[to]
	if !ok {
		return 0, fmt.Errorf("convert units: unknown unit %q", to)
	}
	return value * fromMM / toMM, nil
}

// ConvertMargins converts all four offsets of a spec, preserving the target
// unit tag.
func ConvertMargins(m domain.MarginSpec, to domain.Unit) (domain.MarginSpec, error) {
	if m.Unit == to {
		out := m
		return out, nil
	}
	out := domain.MarginSpec{Unit: to}
	var err error
	if out.Top, err = Convert(m.Top, m.Unit, to); err != nil {
		return domain.MarginSpec{}, err
	}
	if out.Right, err = Convert(m.Right, m.Unit, to); err != nil {
		return domain.MarginSpec{}, err
	}
	if out.Bottom, err = Convert(m.Bottom, m.Unit, to); err != nil {
		return domain.MarginSpec{}, err
	}
	if out.Left, err = Convert(m.Left, m.Unit, to); err != nil {
		return domain.MarginSpec{}, err
	}
	return out, nil
}

// RoundForUnit rounds a value to the display precision of its unit:
// two decimal places for mm/cm/inches, whole numbers for px.
func RoundForUnit(value float64, unit domain.Unit) float64 {
	if unit == domain.UnitPX {
		return math.Round(value)
	}
	return math.Round(value*100) / 100
}

// RoundMargins applies RoundForUnit to all four offsets.
func RoundMargins(m domain.MarginSpec) domain.MarginSpec {
	m.Top = RoundForUnit(m.Top, m.Unit)
	m.Right = RoundForUnit(m.Right, m.Unit)
	m.Bottom = RoundForUnit(m.Bottom, m.Unit)
	m.Left = RoundForUnit(m.Left, m.Unit)
	return m
}

// GuideTag marks margin guide nodes so a surface can remove exactly the
// previously drawn guides before repainting them.
const GuideTag = "margin-guide"

const guideColor = "#60a5fa"

// GuideNodes builds the four margin guide lines for a page of the given
// size. The margins must already be in pixels; offsets that would place a
// guide off the page are skipped.
func GuideNodes(m domain.MarginSpec, pageW, pageH float64) []*domain.Node {
	type guide struct {
		name string
		a, b domain.Point
		off  float64
		max  float64
	}
	guides := []guide{
		{"top", domain.Point{X: 0, Y: m.Top}, domain.Point{X: pageW, Y: m.Top}, m.Top, pageH},
		{"right", domain.Point{X: pageW - m.Right, Y: 0}, domain.Point{X: pageW - m.Right, Y: pageH}, m.Right, pageW},
		{"bottom", domain.Point{X: 0, Y: pageH - m.Bottom}, domain.Point{X: pageW, Y: pageH - m.Bottom}, m.Bottom, pageH},
		{"left", domain.Point{X: m.Left, Y: 0}, domain.Point{X: m.Left, Y: pageH}, m.Left, pageW},
	}

	nodes := make([]*domain.Node, 0, len(guides))
	for _, g := range guides {
		if g.off < 0 || g.off > g.max {
			continue
		}
		nodes = append(nodes, &domain.Node{
			ID:     uuid.New().String(),
			Kind:   domain.NodeMarginGuide,
			Tag:    GuideTag,
			Text:   g.name,
			Points: []domain.Point{g.a, g.b},
			Style: domain.NodeStyle{
				Stroke:      guideColor,
				StrokeWidth: 1,
				Dashed:      true,
			},
		})
	}
	return nodes
}
