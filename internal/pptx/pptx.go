// Package pptx writes a presentation as an Office Open XML slide deck, one
// slide part per Slide in deck order. The parts produced here are the same
// ones PowerPoint emits: content types, package rels, presentation.xml, a
// master/layout pair, and ppt/slides/slideN.xml with standard placeholder
// typing (ctrTitle, title, body) so third-party tools classify the shapes.
package pptx

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tmarton/slidegen/internal/layout"
	"github.com/tmarton/slidegen/internal/model"
	"github.com/tmarton/slidegen/internal/theme"
)

// Slide canvas in EMU for 16:9.
const (
	slideW = 12192000
	slideH = 6858000
)

// Writer assembles the deck. Fetch retrieves remote image bytes for
// embedding; leave it nil to render media placeholders instead.
type Writer struct {
	Fetch func(ctx context.Context, url string) ([]byte, string, error)
}

// NewWriter returns a Writer that fetches slide images over HTTP.
func NewWriter() *Writer {
	client := &http.Client{Timeout: 20 * time.Second}
	return &Writer{
		Fetch: func(ctx context.Context, url string) ([]byte, string, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, "", err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, "", err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, "", fmt.Errorf("image fetch returned %d", resp.StatusCode)
			}
			data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
			if err != nil {
				return nil, "", err
			}
			ext := "jpeg"
			if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "png") {
				ext = "png"
			}
			return data, ext, nil
		},
	}
}

type mediaRef struct {
	fileName string // media/imageN.ext
	relID    string
}

// Write emits the complete .pptx package to w.
func (wr *Writer) Write(ctx context.Context, w io.Writer, p model.Presentation, t theme.Theme) error {
	zw := zip.NewWriter(w)

	n := len(p.Slides)

	// Resolve media up front so content types can list the extensions.
	media := make([]*mediaRef, n)
	mediaData := map[string][]byte{}
	extSeen := map[string]bool{}
	for i, s := range p.Slides {
		if s.ImageURL == "" || wr.Fetch == nil {
			continue
		}
		data, ext, err := wr.Fetch(ctx, s.ImageURL)
		if err != nil {
			// Missing media is the placeholder case, never a deck failure.
			continue
		}
		name := fmt.Sprintf("media/image%d.%s", i+1, ext)
		media[i] = &mediaRef{fileName: name, relID: "rIdImg"}
		mediaData[name] = data
		extSeen[ext] = true
	}

	files := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML(n, p, extSeen)},
		{"_rels/.rels", rootRelsXML},
		{"ppt/presentation.xml", presentationXML(n)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(n)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML(t)},
	}

	for i, s := range p.Slides {
		num := i + 1
		files = append(files, struct {
			name    string
			content string
		}{fmt.Sprintf("ppt/slides/slide%d.xml", num), slideXML(s, media[i])})
		files = append(files, struct {
			name    string
			content string
		}{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num), slideRelsXML(num, s, media[i])})
		if s.Notes != "" {
			files = append(files, struct {
				name    string
				content string
			}{fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", num), notesXML(s.Notes)})
		}
	}

	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := fw.Write([]byte(f.content)); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	for name, data := range mediaData {
		fw, err := zw.Create("ppt/" + name)
		if err != nil {
			return fmt.Errorf("create media %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("write media %s: %w", name, err)
		}
	}

	return zw.Close()
}

func esc(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func contentTypesXML(n int, p model.Presentation, extSeen map[string]bool) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for ext := range extSeen {
		b.WriteString(fmt.Sprintf(`<Default Extension="%s" ContentType="image/%s"/>`, ext, ext))
	}
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= n; i++ {
		b.WriteString(fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i))
	}
	for i, s := range p.Slides {
		if s.Notes != "" {
			b.WriteString(fmt.Sprintf(`<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, i+1))
		}
	}
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`</Relationships>`

func presentationXML(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= n; i++ {
		b.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1))
	}
	b.WriteString(`</p:sldIdLst>`)
	b.WriteString(fmt.Sprintf(`<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="%d" cy="%d"/>`, slideW, slideH, slideH, slideW))
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 1; i <= n; i++ {
		b.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

const slideMasterXML = xmlHeader + `<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = xmlHeader + `<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>` +
	`</p:sldLayout>`

const slideLayoutRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

func themeXML(t theme.Theme) string {
	accent := strings.TrimPrefix(t.Accent, "#")
	if accent == "" {
		accent = "4472C4"
	}
	return xmlHeader + `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="` + esc(t.Name) + `">` +
		`<a:themeElements><a:clrScheme name="Office">` +
		`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="` + accent + `"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme>` +
		`<a:fontScheme name="Office"><a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
		`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>` +
		`<a:fmtScheme name="Office"><a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
		`<a:lnStyleLst><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
		`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
		`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
		`</a:fmtScheme></a:themeElements></a:theme>`
}

func slideRelsXML(num int, s model.Slide, media *mediaRef) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	if media != nil {
		b.WriteString(fmt.Sprintf(`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../%s"/>`, media.relID, media.fileName))
	}
	if s.Notes != "" {
		b.WriteString(fmt.Sprintf(`<Relationship Id="rIdNotes" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, num))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func notesXML(notes string) string {
	return xmlHeader + `<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>` + esc(notes) + `</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:notes>`
}

// box is a shape frame in EMU.
type box struct{ x, y, w, h int }

func (b box) xfrm() string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, b.x, b.y, b.w, b.h)
}

var alignMap = map[model.Alignment]string{
	model.AlignLeft:   "l",
	model.AlignCenter: "ctr",
	model.AlignRight:  "r",
}

// titleBox nudges the title per variant so the three sub-arrangements stay
// visibly distinct in the deck file too.
func titleBox(variant int) box {
	switch variant {
	case 2:
		return box{x: 838200, y: 792000, w: slideW - 1676400, h: 1008000}
	case 3:
		return box{x: 838200, y: slideH - 1800000, w: slideW - 1676400, h: 1008000}
	default:
		return box{x: 838200, y: 365125, w: slideW - 1676400, h: 1008000}
	}
}

func titleShape(id int, phType, text string, b box, align model.Alignment, sizePt int) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Title"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="%s"/></p:nvPr></p:nvSpPr>`+
		`<p:spPr>%s</p:spPr><p:txBody><a:bodyPr/><a:p><a:pPr algn="%s"/><a:r><a:rPr lang="en-US" sz="%d" b="1"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, phType, b.xfrm(), alignMap[align], sizePt*100, esc(text))
}

// bodyShape renders a body placeholder: an optional lead paragraph followed
// by the bullet list, order preserved.
func bodyShape(id int, b box, content string, bullets []string) string {
	var paras strings.Builder
	if content != "" {
		paras.WriteString(fmt.Sprintf(`<a:p><a:pPr><a:buNone/></a:pPr><a:r><a:rPr lang="en-US" sz="1800"/><a:t>%s</a:t></a:r></a:p>`, esc(content)))
	}
	for _, bl := range bullets {
		paras.WriteString(fmt.Sprintf(`<a:p><a:pPr><a:buAutoNum type="arabicPeriod"/></a:pPr><a:r><a:rPr lang="en-US" sz="1600"/><a:t>%s</a:t></a:r></a:p>`, esc(bl)))
	}
	if paras.Len() == 0 {
		paras.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Body"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>`+
		`<p:spPr>%s</p:spPr><p:txBody><a:bodyPr/>%s</p:txBody></p:sp>`, id, b.xfrm(), paras.String())
}

func textShape(id int, name string, b box, text string, sizePt int, align string, bold bool) string {
	boldAttr := ""
	if bold {
		boldAttr = ` b="1"`
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s</p:spPr><p:txBody><a:bodyPr/><a:p><a:pPr algn="%s"/><a:r><a:rPr lang="en-US" sz="%d"%s/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, esc(name), b.xfrm(), align, sizePt*100, boldAttr, esc(text))
}

func pictureShape(id int, media *mediaRef, b box) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Media"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`, id, media.relID, b.xfrm())
}

// placeholderBox draws the documented stand-in for an unresolved media zone.
func placeholderBox(id int, b box) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="MediaPlaceholder"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:solidFill><a:srgbClr val="E7E6E6"/></a:solidFill></p:spPr>`+
		`<p:txBody><a:bodyPr anchor="ctr"/><a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" sz="3600"/><a:t>&#9783;</a:t></a:r></a:p></p:txBody></p:sp>`, id, b.xfrm())
}

func slideXML(s model.Slide, media *mediaRef) string {
	var shapes strings.Builder
	id := 2
	next := func() int { id++; return id - 1 }

	half := (slideW - 1676400 - 457200) / 2
	leftCol := box{x: 838200, y: 1600200, w: half, h: slideH - 2438400}
	rightCol := box{x: 838200 + half + 457200, y: 1600200, w: half, h: slideH - 2438400}

	switch s.Layout {
	case model.LayoutTitle:
		shapes.WriteString(titleShape(next(), "ctrTitle", s.Title, box{x: 838200, y: 2130425, w: slideW - 1676400, h: 1470025}, s.TitleAlignment, 44))
		if s.Subtitle != "" {
			shapes.WriteString(textShape(next(), "Subtitle", box{x: 838200, y: 3886200, w: slideW - 1676400, h: 800100}, s.Subtitle, 22, alignMap[s.TitleAlignment], false))
		}

	case model.LayoutContentImage:
		shapes.WriteString(titleShape(next(), "title", s.Title, titleBox(s.LayoutVariant), s.TitleAlignment, 32))
		shapes.WriteString(bodyShape(next(), leftCol, s.Content, s.BulletPoints))
		if media != nil {
			shapes.WriteString(pictureShape(next(), media, rightCol))
		} else {
			shapes.WriteString(placeholderBox(next(), rightCol))
		}

	case model.LayoutImageContent:
		shapes.WriteString(titleShape(next(), "title", s.Title, titleBox(s.LayoutVariant), s.TitleAlignment, 32))
		if media != nil {
			shapes.WriteString(pictureShape(next(), media, leftCol))
		} else {
			shapes.WriteString(placeholderBox(next(), leftCol))
		}
		shapes.WriteString(bodyShape(next(), rightCol, s.Content, s.BulletPoints))

	case model.LayoutTwoColumn:
		shapes.WriteString(titleShape(next(), "title", s.Title, titleBox(s.LayoutVariant), s.TitleAlignment, 32))
		mid := (len(s.BulletPoints) + 1) / 2
		shapes.WriteString(bodyShape(next(), leftCol, s.Content, s.BulletPoints[:mid]))
		shapes.WriteString(bodyShape(next(), rightCol, s.Subtitle, s.BulletPoints[mid:]))

	case model.LayoutFullImage:
		full := box{x: 0, y: 0, w: slideW, h: slideH}
		if media != nil {
			shapes.WriteString(pictureShape(next(), media, full))
		} else {
			shapes.WriteString(placeholderBox(next(), full))
		}
		// Bottom-anchored overlay per the contract.
		shapes.WriteString(titleShape(next(), "title", s.Title, box{x: 838200, y: slideH - 1828800, w: slideW - 1676400, h: 914400}, s.TitleAlignment, 36))
		if s.Content != "" {
			shapes.WriteString(textShape(next(), "Overlay", box{x: 838200, y: slideH - 914400, w: slideW - 1676400, h: 685800}, s.Content, 16, alignMap[s.TitleAlignment], false))
		}

	case model.LayoutQuote:
		shapes.WriteString(textShape(next(), "QuoteMark", box{x: 838200, y: 914400, w: 1371600, h: 1371600}, "“", 96, "l", true))
		shapes.WriteString(textShape(next(), "Quote", box{x: 1371600, y: 2286000, w: slideW - 2743200, h: 1828800}, s.Quote, 28, "ctr", false))
		if s.QuoteAuthor != "" {
			shapes.WriteString(textShape(next(), "Attribution", box{x: 1371600, y: 4343400, w: slideW - 2743200, h: 457200}, "— "+s.QuoteAuthor, 18, "ctr", false))
		}

	case model.LayoutStats:
		shapes.WriteString(titleShape(next(), "title", s.Title, titleBox(s.LayoutVariant), s.TitleAlignment, 32))
		if s.Content != "" {
			shapes.WriteString(textShape(next(), "Lead", box{x: 838200, y: 1447800, w: slideW - 1676400, h: 609600}, s.Content, 16, alignMap[s.TitleAlignment], false))
		}
		cols := layout.StatColumns(len(s.Stats))
		if cols > 0 {
			gap := 228600
			cardW := (slideW - 1676400 - gap*(cols-1)) / cols
			for i, st := range s.Stats {
				row := i / cols
				col := i % cols
				x := 838200 + col*(cardW+gap)
				y := 2286000 + row*1828800
				shapes.WriteString(textShape(next(), fmt.Sprintf("StatValue%d", i+1), box{x: x, y: y, w: cardW, h: 685800}, st.Value, 32, "ctr", true))
				shapes.WriteString(textShape(next(), fmt.Sprintf("StatLabel%d", i+1), box{x: x, y: y + 685800, w: cardW, h: 457200}, st.Label, 12, "ctr", false))
			}
		}

	case model.LayoutThankYou:
		shapes.WriteString(textShape(next(), "Icon", box{x: (slideW - 914400) / 2, y: 1143000, w: 914400, h: 914400}, "✦", 54, "ctr", false))
		shapes.WriteString(titleShape(next(), "ctrTitle", s.Title, box{x: 838200, y: 2286000, w: slideW - 1676400, h: 1143000}, s.TitleAlignment, 40))
		if s.Content != "" {
			shapes.WriteString(textShape(next(), "Contact", box{x: 838200, y: 3657600, w: slideW - 1676400, h: 685800}, s.Content, 16, "ctr", false))
		}

	default: // content and anything normalized to it
		shapes.WriteString(titleShape(next(), "title", s.Title, titleBox(s.LayoutVariant), s.TitleAlignment, 32))
		shapes.WriteString(bodyShape(next(), box{x: 838200, y: 1600200, w: slideW - 1676400, h: slideH - 2438400}, s.Content, s.BulletPoints))
	}

	return xmlHeader + `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes.String() +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
}
