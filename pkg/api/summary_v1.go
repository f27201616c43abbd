// pkg/api/summary_v1.go
package api

// SummaryV1 is the stable JSON schema for a reduced photon source.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SummaryV1 struct {
	Input       string   `json:"input"`
	Isotope     string   `json:"isotope"`
	CoolingStep int      `json:"cooling_step"`
	StepLabel   string   `json:"cooling_step_label"`
	Catalog     []string `json:"catalog"`
	Headings    []string `json:"headings,omitempty"`
	Cells       []CellV1 `json:"cells"`
	Total       float64  `json:"total"`
	Groups      int      `json:"groups"`
}

// CellV1 is one mesh cell's reduced strength.
type CellV1 struct {
	Cell     int       `json:"cell"` // 1-based
	Strength float64   `json:"strength"`
	Groups   []float64 `json:"groups,omitempty"`
}
