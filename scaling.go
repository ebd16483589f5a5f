package docbuild

// scaleTier shrinks diagrams whose SVG exceeds a width or a height.
// A zero bound is ignored; a tier with both bounds zero matches everything.
type scaleTier struct {
	MinWidth  float64 `json:"minWidth"`
	MinHeight float64 `json:"minHeight"`
	Scale     float64 `json:"scale"`
	MarginPx  int     `json:"marginPx"` // space kept below the diagram
}

// matches reports whether a w x h diagram falls into the tier.
func (t scaleTier) matches(w, h float64) bool {
	if t.MinWidth == 0 && t.MinHeight == 0 {
		return true
	}
	return (t.MinWidth > 0 && w > t.MinWidth) || (t.MinHeight > 0 && h > t.MinHeight)
}

// scaleTiers is ordered from the largest diagrams down. The first match wins.
var scaleTiers = []scaleTier{
	{MinWidth: 1500, MinHeight: 1000, Scale: 0.55, MarginPx: 60},
	{MinWidth: 1000, MinHeight: 700, Scale: 0.65, MarginPx: 50},
	{MinWidth: 700, MinHeight: 500, Scale: 0.75, MarginPx: 40},
	{MinWidth: 500, Scale: 0.85, MarginPx: 30},
	{Scale: 0.95, MarginPx: 20},
}

// scaleFor returns the tier applied to a diagram of the given size in pixels.
func scaleFor(w, h float64) scaleTier {
	for _, t := range scaleTiers {
		if t.matches(w, h) {
			return t
		}
	}
	return scaleTiers[len(scaleTiers)-1]
}

// scaleDiagramsJS receives scaleTiers (serialized to JSON by rod) and
// applies the same first-match rule as scaleFor to every rendered SVG.
const scaleDiagramsJS = `(tiers) => {
	const match = (t, w, h) =>
		(t.minWidth === 0 && t.minHeight === 0) ||
		(t.minWidth > 0 && w > t.minWidth) ||
		(t.minHeight > 0 && h > t.minHeight);
	document.querySelectorAll('.mermaid svg').forEach((svg) => {
		const w = parseFloat(svg.getAttribute('width')) || (svg.viewBox && svg.viewBox.baseVal.width) || 0;
		const h = parseFloat(svg.getAttribute('height')) || (svg.viewBox && svg.viewBox.baseVal.height) || 0;
		const tier = tiers.find((t) => match(t, w, h)) || tiers[tiers.length - 1];
		const box = svg.parentElement;
		svg.style.transform = 'scale(' + tier.scale + ')';
		svg.style.transformOrigin = 'center top';
		svg.style.display = 'block';
		svg.style.margin = '0 auto';
		box.style.marginBottom = tier.marginPx + 'px';
		box.style.textAlign = 'center';
		box.style.pageBreakInside = 'avoid';
		box.style.overflow = 'visible';
		box.style.width = '100%';
	});
}`
