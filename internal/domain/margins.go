package domain

// Unit is a page-margin measurement unit.
type Unit string

const (
	UnitMM   Unit = "mm"
	UnitCM   Unit = "cm"
	UnitInch Unit = "inches"
	UnitPX   Unit = "px"
)

// MarginSpec holds the four page offsets in a single unit. The engine's
// canonical representation is pixels; other units exist only at the edges
// (settings file, frontend inputs) and are converted on the way in.
type MarginSpec struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Unit   Unit    `json:"unit"`
}

// IsZero reports whether no margin has been set.
func (m MarginSpec) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}
