package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/tmarton/slidegen/internal/model"
	"github.com/tmarton/slidegen/internal/theme"
)

func testDeck() model.Presentation {
	p := model.NewPresentation("Quarterly Review", "numbers and next steps", "default")
	return p.WithSlides([]model.Slide{
		{ID: model.NewSlideID(), Title: "Quarterly Review", Subtitle: "Q3", Layout: model.LayoutTitle, TitleAlignment: model.AlignCenter},
		{ID: model.NewSlideID(), Title: "Highlights", Layout: model.LayoutContent, BulletPoints: []string{"Shipped v2", "Churn down"}, Notes: "pause here for questions"},
		{ID: model.NewSlideID(), Title: "Key Figures", Layout: model.LayoutStats, Stats: []model.Stat{
			{Value: "84%", Label: "retention"},
			{Value: "1.2M", Label: "active users"},
			{Value: "9", Label: "new markets"},
		}},
		{ID: model.NewSlideID(), Title: "Our Product", Layout: model.LayoutContentImage, ImageURL: "https://img/product.png"},
		{ID: model.NewSlideID(), Title: "Thank You", Layout: model.LayoutThankYou},
	})
}

func writeDeck(t *testing.T, wr *Writer, p model.Presentation) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := wr.Write(context.Background(), &buf, p, theme.Default); err != nil {
		t.Fatalf("Write: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	return zr
}

func readPart(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open %s: %v", name, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read %s: %v", name, err)
			}
			return string(data)
		}
	}
	t.Fatalf("part %s missing from package", name)
	return ""
}

func hasPart(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func stubFetch(data []byte, ext string) func(context.Context, string) ([]byte, string, error) {
	return func(_ context.Context, _ string) ([]byte, string, error) {
		return data, ext, nil
	}
}

func TestWriteEmitsRequiredParts(t *testing.T) {
	wr := &Writer{Fetch: stubFetch([]byte("imagebytes"), "png")}
	zr := writeDeck(t, wr, testDeck())

	required := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
	}
	for i := 1; i <= 5; i++ {
		required = append(required,
			fmt.Sprintf("ppt/slides/slide%d.xml", i),
			fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i))
	}
	for _, name := range required {
		if !hasPart(zr, name) {
			t.Errorf("missing part %s", name)
		}
	}

	pres := readPart(t, zr, "ppt/presentation.xml")
	if got := strings.Count(pres, "<p:sldId "); got != 5 {
		t.Errorf("presentation lists %d slides, want 5", got)
	}
	if !strings.Contains(pres, `cx="12192000" cy="6858000"`) {
		t.Error("slide size is not 16:9 EMU")
	}
}

func TestWriteKeepsSlideOrder(t *testing.T) {
	wr := &Writer{}
	zr := writeDeck(t, wr, testDeck())

	wantTitles := []string{"Quarterly Review", "Highlights", "Key Figures", "Our Product", "Thank You"}
	for i, want := range wantTitles {
		part := readPart(t, zr, fmt.Sprintf("ppt/slides/slide%d.xml", i+1))
		if !strings.Contains(part, ">"+want+"<") {
			t.Errorf("slide%d.xml does not carry title %q", i+1, want)
		}
	}

	rels := readPart(t, zr, "ppt/_rels/presentation.xml.rels")
	for i := 1; i <= 5; i++ {
		if !strings.Contains(rels, fmt.Sprintf(`Target="slides/slide%d.xml"`, i)) {
			t.Errorf("presentation rels missing slide%d", i)
		}
	}
}

func TestWritePlaceholderTyping(t *testing.T) {
	wr := &Writer{}
	zr := writeDeck(t, wr, testDeck())

	title := readPart(t, zr, "ppt/slides/slide1.xml")
	if !strings.Contains(title, `<p:ph type="ctrTitle"/>`) {
		t.Error("title slide lacks a ctrTitle placeholder")
	}

	content := readPart(t, zr, "ppt/slides/slide2.xml")
	if !strings.Contains(content, `<p:ph type="title"/>`) {
		t.Error("content slide lacks a title placeholder")
	}
	if !strings.Contains(content, `<p:ph type="body"`) {
		t.Error("content slide lacks a body placeholder")
	}
	for _, b := range []string{"Shipped v2", "Churn down"} {
		if !strings.Contains(content, ">"+b+"<") {
			t.Errorf("bullet %q missing", b)
		}
	}
}

func TestWriteStatsOrder(t *testing.T) {
	wr := &Writer{}
	zr := writeDeck(t, wr, testDeck())

	part := readPart(t, zr, "ppt/slides/slide3.xml")
	i84 := strings.Index(part, ">84%<")
	i12 := strings.Index(part, ">1.2M<")
	i9 := strings.Index(part, ">9<")
	if i84 < 0 || i12 < 0 || i9 < 0 || !(i84 < i12 && i12 < i9) {
		t.Errorf("stat values out of order: %d %d %d", i84, i12, i9)
	}
	for _, label := range []string{"retention", "active users", "new markets"} {
		if !strings.Contains(part, ">"+label+"<") {
			t.Errorf("stat label %q missing", label)
		}
	}
}

func TestWriteNotesPart(t *testing.T) {
	wr := &Writer{}
	zr := writeDeck(t, wr, testDeck())

	notes := readPart(t, zr, "ppt/notesSlides/notesSlide2.xml")
	if !strings.Contains(notes, "pause here for questions") {
		t.Error("speaker notes text missing")
	}

	rels := readPart(t, zr, "ppt/slides/_rels/slide2.xml.rels")
	if !strings.Contains(rels, "notesSlides/notesSlide2.xml") {
		t.Error("slide rels do not reference the notes part")
	}

	types := readPart(t, zr, "[Content_Types].xml")
	if !strings.Contains(types, "/ppt/notesSlides/notesSlide2.xml") {
		t.Error("content types do not list the notes part")
	}
	if hasPart(zr, "ppt/notesSlides/notesSlide1.xml") {
		t.Error("slides without notes must not get notes parts")
	}
}

func TestWriteEmbedsFetchedMedia(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	wr := &Writer{Fetch: stubFetch(payload, "png")}
	zr := writeDeck(t, wr, testDeck())

	got := readPart(t, zr, "ppt/media/image4.png")
	if !bytes.Equal([]byte(got), payload) {
		t.Error("embedded media bytes differ from the fetched payload")
	}

	slide := readPart(t, zr, "ppt/slides/slide4.xml")
	if !strings.Contains(slide, "<p:pic>") {
		t.Error("image slide has no picture shape")
	}

	rels := readPart(t, zr, "ppt/slides/_rels/slide4.xml.rels")
	if !strings.Contains(rels, "media/image4.png") {
		t.Error("slide rels do not reference the media file")
	}

	types := readPart(t, zr, "[Content_Types].xml")
	if !strings.Contains(types, `Extension="png"`) {
		t.Error("content types do not declare the png default")
	}
}

func TestWriteFailedFetchFallsBackToPlaceholder(t *testing.T) {
	wr := &Writer{Fetch: func(context.Context, string) ([]byte, string, error) {
		return nil, "", errors.New("host unreachable")
	}}
	zr := writeDeck(t, wr, testDeck())

	slide := readPart(t, zr, "ppt/slides/slide4.xml")
	if strings.Contains(slide, "<p:pic>") {
		t.Error("picture shape emitted without media bytes")
	}
	if !strings.Contains(slide, "MediaPlaceholder") {
		t.Error("placeholder shape missing for unresolved media")
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/media/") {
			t.Errorf("unexpected media part %s", f.Name)
		}
	}
}

func TestWriteNilFetchRendersPlaceholders(t *testing.T) {
	wr := &Writer{}
	zr := writeDeck(t, wr, testDeck())

	slide := readPart(t, zr, "ppt/slides/slide4.xml")
	if !strings.Contains(slide, "MediaPlaceholder") {
		t.Error("nil Fetch should fall back to placeholders")
	}
}

func TestWriteEscapesMarkup(t *testing.T) {
	p := model.NewPresentation("t", "", "default")
	p = p.WithSlides([]model.Slide{{
		ID:     model.NewSlideID(),
		Title:  `Profit & Loss <FY"25>`,
		Layout: model.LayoutContent,
	}})

	wr := &Writer{}
	zr := writeDeck(t, wr, p)

	slide := readPart(t, zr, "ppt/slides/slide1.xml")
	if !strings.Contains(slide, "Profit &amp; Loss &lt;FY&quot;25&gt;") {
		t.Error("markup characters not escaped in slide text")
	}
	if strings.Contains(slide, `Loss <FY`) {
		t.Error("raw markup leaked into slide XML")
	}
}

func TestWriteQuoteSlide(t *testing.T) {
	p := model.NewPresentation("q", "", "default")
	p = p.WithSlides([]model.Slide{{
		ID:          model.NewSlideID(),
		Title:       "A Voice",
		Layout:      model.LayoutQuote,
		Quote:       "Simplicity is the soul of efficiency.",
		QuoteAuthor: "Austin Freeman",
	}})

	zr := writeDeck(t, &Writer{}, p)
	slide := readPart(t, zr, "ppt/slides/slide1.xml")

	if !strings.Contains(slide, "Simplicity is the soul of efficiency.") {
		t.Error("quote text missing")
	}
	if !strings.Contains(slide, "— Austin Freeman") {
		t.Error("attribution missing")
	}
}
