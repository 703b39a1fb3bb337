package diagram

import (
	"context"
	"errors"

	"github.com/HerbHall/cloudadvisor/internal/present"
)

// Diagram is a flow in source form, plus its image when rasterization
// succeeded.
type Diagram struct {
	Mermaid string `json:"mermaid"`
	SVG     string `json:"svg,omitempty"`
	Error   string `json:"error,omitempty"`
	Outcome string `json:"-"`
}

// Render rasterizes flow with r. The Mermaid source is always returned;
// a failed or disabled rasterizer leaves SVG empty and never fails the call.
// Flows without nodes are not sent to the rasterizer.
func Render(ctx context.Context, r Rasterizer, flow present.Flow) Diagram {
	d := Diagram{Mermaid: flow.Mermaid()}
	if r == nil {
		r = Disabled{}
	}
	if len(flow.Nodes) == 0 {
		d.Outcome = OutcomeDisabled
		return d
	}

	svg, err := r.Rasterize(ctx, d.Mermaid)
	d.Outcome = Classify(err)
	switch {
	case err == nil:
		d.SVG = string(svg)
	case errors.Is(err, ErrDisabled):
	default:
		d.Error = err.Error()
	}
	return d
}
