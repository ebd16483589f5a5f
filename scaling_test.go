package docbuild

import (
	"strings"
	"testing"
)

func TestScaleFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		w, h       float64
		wantScale  float64
		wantMargin int
	}{
		{name: "very wide", w: 1600, h: 200, wantScale: 0.55, wantMargin: 60},
		{name: "very tall", w: 300, h: 1200, wantScale: 0.55, wantMargin: 60},
		{name: "large", w: 1200, h: 300, wantScale: 0.65, wantMargin: 50},
		{name: "tall", w: 300, h: 800, wantScale: 0.65, wantMargin: 50},
		{name: "medium", w: 800, h: 300, wantScale: 0.75, wantMargin: 40},
		{name: "medium tall", w: 300, h: 600, wantScale: 0.75, wantMargin: 40},
		{name: "small wide", w: 600, h: 300, wantScale: 0.85, wantMargin: 30},
		{name: "height ignored below medium", w: 400, h: 480, wantScale: 0.95, wantMargin: 20},
		{name: "tiny", w: 200, h: 100, wantScale: 0.95, wantMargin: 20},
		{name: "unknown size", w: 0, h: 0, wantScale: 0.95, wantMargin: 20},
		{name: "bounds are exclusive", w: 1500, h: 1000, wantScale: 0.65, wantMargin: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := scaleFor(tt.w, tt.h)
			if got.Scale != tt.wantScale || got.MarginPx != tt.wantMargin {
				t.Errorf("scaleFor(%v, %v) = %.2f/%dpx, want %.2f/%dpx", tt.w, tt.h, got.Scale, got.MarginPx, tt.wantScale, tt.wantMargin)
			}
		})
	}
}

func TestScaleTiers_Ordered(t *testing.T) {
	t.Parallel()

	last := scaleTiers[len(scaleTiers)-1]
	if last.MinWidth != 0 || last.MinHeight != 0 {
		t.Error("last tier should match every diagram")
	}
	for i := 1; i < len(scaleTiers); i++ {
		if scaleTiers[i].Scale <= scaleTiers[i-1].Scale {
			t.Errorf("tier %d scale %.2f should exceed tier %d scale %.2f", i, scaleTiers[i].Scale, i-1, scaleTiers[i-1].Scale)
		}
	}
}

func TestScaleDiagramsJS_UsesTierFields(t *testing.T) {
	t.Parallel()

	for _, field := range []string{"minWidth", "minHeight", "scale", "marginPx", ".mermaid svg"} {
		if !strings.Contains(scaleDiagramsJS, field) {
			t.Errorf("scaleDiagramsJS missing %q", field)
		}
	}
}
