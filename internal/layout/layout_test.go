package layout

import (
	"testing"

	"github.com/tmarton/slidegen/internal/model"
)

func TestContractCoversEveryLayout(t *testing.T) {
	for _, l := range model.Layouts {
		spec, ok := Contract[l]
		if !ok {
			t.Errorf("layout %q has no contract entry", l)
			continue
		}
		if len(spec.Zones) == 0 {
			t.Errorf("layout %q has no zones", l)
		}
	}
	if len(Contract) != len(model.Layouts) {
		t.Errorf("contract has %d entries for %d layouts", len(Contract), len(model.Layouts))
	}
}

func TestEveryLayoutHasARequiredZone(t *testing.T) {
	// No layout may be entirely optional; each anchors on at least one zone.
	for _, l := range model.Layouts {
		if len(Required(l)) == 0 {
			t.Errorf("layout %q has no required zone", l)
		}
	}
}

func TestOptionalZonesNamePlaceholders(t *testing.T) {
	for _, l := range model.Layouts {
		for _, z := range Zones(l) {
			if z.Required && z.Placeholder != PlaceholderNone {
				t.Errorf("%s/%s: required zones take no placeholder", l, z.Zone)
			}
			if !z.Required && z.Placeholder == PlaceholderNone {
				t.Errorf("%s/%s: optional zone without a placeholder policy", l, z.Zone)
			}
		}
	}
}

func TestReadingOrder(t *testing.T) {
	tests := []struct {
		layout model.Layout
		want   []Zone
	}{
		{model.LayoutContentImage, []Zone{ZoneTitle, ZoneBody, ZoneBullets, ZoneMedia}},
		{model.LayoutImageContent, []Zone{ZoneMedia, ZoneTitle, ZoneBody, ZoneBullets}},
		{model.LayoutQuote, []Zone{ZoneQuoteMark, ZoneQuoteText, ZoneAttribution}},
		{model.LayoutTwoColumn, []Zone{ZoneTitle, ZoneColumnLeft, ZoneColumnRight}},
	}
	for _, tt := range tests {
		zones := Zones(tt.layout)
		if len(zones) != len(tt.want) {
			t.Errorf("%s: %d zones, want %d", tt.layout, len(zones), len(tt.want))
			continue
		}
		for i, z := range zones {
			if z.Zone != tt.want[i] {
				t.Errorf("%s zone %d = %s, want %s", tt.layout, i, z.Zone, tt.want[i])
			}
		}
	}
}

func TestUnknownLayoutFallsBackToContent(t *testing.T) {
	got := Zones(model.Layout("hero-banner"))
	want := Zones(model.LayoutContent)
	if len(got) != len(want) {
		t.Fatalf("fallback zone count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fallback zone %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHasMedia(t *testing.T) {
	withMedia := map[model.Layout]bool{
		model.LayoutContentImage: true,
		model.LayoutImageContent: true,
		model.LayoutFullImage:    true,
	}
	for _, l := range model.Layouts {
		if got := HasMedia(l); got != withMedia[l] {
			t.Errorf("HasMedia(%s) = %v, want %v", l, got, withMedia[l])
		}
	}
}

func TestStatColumns(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 4},
		{5, 4},
		{8, 4},
	}
	for _, tt := range tests {
		if got := StatColumns(tt.n); got != tt.want {
			t.Errorf("StatColumns(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
