// Package layout holds the layout contract: for every slide archetype, the
// content zones it shows, in reading order, with required/optional marking
// and the placeholder each optional zone falls back to. The four render
// targets have no shared engine; this table is the single definition they
// all validate against.
package layout

import "github.com/tmarton/slidegen/internal/model"

type Zone string

const (
	ZoneTitle       Zone = "title"
	ZoneSubtitle    Zone = "subtitle"
	ZoneBody        Zone = "body"
	ZoneBullets     Zone = "bullets"
	ZoneMedia       Zone = "media"
	ZoneColumnLeft  Zone = "column-left"
	ZoneColumnRight Zone = "column-right"
	ZoneQuoteMark   Zone = "quote-mark"
	ZoneQuoteText   Zone = "quote-text"
	ZoneAttribution Zone = "attribution"
	ZoneStats       Zone = "stats"
	ZoneIcon        Zone = "icon"
	ZoneContacts    Zone = "contacts"
)

// Placeholder names what a target substitutes when an optional zone has no
// content. "omit" means the zone simply disappears.
type Placeholder string

const (
	PlaceholderNone  Placeholder = ""
	PlaceholderOmit  Placeholder = "omit"
	PlaceholderIcon  Placeholder = "icon"
	PlaceholderSolid Placeholder = "solid-background"
)

type ZoneSpec struct {
	Zone        Zone
	Required    bool
	Placeholder Placeholder
}

type Spec struct {
	Zones []ZoneSpec
}

// Contract maps each layout to its zones in reading order.
var Contract = map[model.Layout]Spec{
	model.LayoutTitle: {Zones: []ZoneSpec{
		{Zone: ZoneTitle, Required: true},
		{Zone: ZoneSubtitle, Placeholder: PlaceholderOmit},
	}},
	model.LayoutContent: {Zones: []ZoneSpec{
		{Zone: ZoneTitle, Required: true},
		{Zone: ZoneBody, Placeholder: PlaceholderOmit},
		{Zone: ZoneBullets, Placeholder: PlaceholderOmit},
	}},
	model.LayoutContentImage: {Zones: []ZoneSpec{
		{Zone: ZoneTitle, Required: true},
		{Zone: ZoneBody, Placeholder: PlaceholderOmit},
		{Zone: ZoneBullets, Placeholder: PlaceholderOmit},
		{Zone: ZoneMedia, Placeholder: PlaceholderIcon},
	}},
	model.LayoutImageContent: {Zones: []ZoneSpec{
		{Zone: ZoneMedia, Placeholder: PlaceholderIcon},
		{Zone: ZoneTitle, Required: true},
		{Zone: ZoneBody, Placeholder: PlaceholderOmit},
		{Zone: ZoneBullets, Placeholder: PlaceholderOmit},
	}},
	model.LayoutTwoColumn: {Zones: []ZoneSpec{
		{Zone: ZoneTitle, Required: true},
		{Zone: ZoneColumnLeft, Required: true},
		{Zone: ZoneColumnRight, Required: true},
	}},
	model.LayoutFullImage: {Zones: []ZoneSpec{
		{Zone: ZoneMedia, Placeholder: PlaceholderSolid},
		{Zone: ZoneTitle, Required: true},
		{Zone: ZoneBody, Placeholder: PlaceholderOmit},
	}},
	model.LayoutQuote: {Zones: []ZoneSpec{
		{Zone: ZoneQuoteMark, Required: true},
		{Zone: ZoneQuoteText, Required: true},
		{Zone: ZoneAttribution, Placeholder: PlaceholderOmit},
	}},
	model.LayoutStats: {Zones: []ZoneSpec{
		{Zone: ZoneTitle, Required: true},
		{Zone: ZoneBody, Placeholder: PlaceholderOmit},
		{Zone: ZoneStats, Required: true},
	}},
	model.LayoutThankYou: {Zones: []ZoneSpec{
		{Zone: ZoneIcon, Placeholder: PlaceholderOmit},
		{Zone: ZoneTitle, Required: true},
		{Zone: ZoneBody, Placeholder: PlaceholderOmit},
		{Zone: ZoneContacts, Placeholder: PlaceholderOmit},
	}},
}

// Zones returns the zone list for a layout in reading order. Unknown layouts
// get the content contract, matching the assembler's normalization.
func Zones(l model.Layout) []ZoneSpec {
	spec, ok := Contract[l]
	if !ok {
		spec = Contract[model.LayoutContent]
	}
	return spec.Zones
}

// Required returns the required zones of a layout.
func Required(l model.Layout) []Zone {
	var out []Zone
	for _, z := range Zones(l) {
		if z.Required {
			out = append(out, z.Zone)
		}
	}
	return out
}

// HasMedia reports whether the layout carries a media zone. These are the
// layouts the image enrichment pipeline always resolves imagery for.
func HasMedia(l model.Layout) bool {
	for _, z := range Zones(l) {
		if z.Zone == ZoneMedia {
			return true
		}
	}
	return false
}

// StatColumns returns the grid column count for n stat cards: 3 or 4
// columns, with anything past four wrapping onto a second row.
func StatColumns(n int) int {
	switch {
	case n <= 0:
		return 0
	case n <= 3:
		return n
	default:
		return 4
	}
}
