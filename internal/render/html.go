package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/tmarton/slidegen/internal/layout"
	"github.com/tmarton/slidegen/internal/model"
	"github.com/tmarton/slidegen/internal/theme"
)

// HTML writes the deck as one self-contained document: all slide markup,
// the theme's styling and a minimal navigation script, viewable offline
// apart from linked image assets. This target composes independently of the
// live renderer; both answer to the layout contract.
func HTML(w io.Writer, p model.Presentation, t theme.Theme) error {
	data := exportData{
		Title:       p.Title,
		Description: p.Description,
		Theme:       t,
		AspectRatio: p.AspectRatio,
	}
	for i, s := range p.Slides {
		data.Slides = append(data.Slides, exportSlide{
			Index:   i,
			Slide:   s,
			BodyH:   markdown(s.Content),
			Bullets: markdownList(s.BulletPoints),
			Columns: exportColumns(s),
			Cols:    layout.StatColumns(len(s.Stats)),
		})
	}
	return exportTmpl.Execute(w, data)
}

type exportData struct {
	Title       string
	Description string
	Theme       theme.Theme
	AspectRatio string
	Slides      []exportSlide
}

type exportSlide struct {
	Index   int
	Slide   model.Slide
	BodyH   template.HTML
	Bullets []template.HTML
	Columns [2][]template.HTML
	Cols    int
}

func exportColumns(s model.Slide) [2][]template.HTML {
	left, right := SplitColumns(s)
	return [2][]template.HTML{markdownList(left), markdownList(right)}
}

// markdown renders inline slide text. Block mode stays off so a paragraph
// stays a paragraph.
func markdown(s string) template.HTML {
	if s == "" {
		return ""
	}
	out := blackfriday.Run([]byte(s), blackfriday.WithNoExtensions())
	return template.HTML(strings.TrimSpace(string(out)))
}

func markdownList(items []string) []template.HTML {
	var out []template.HTML
	for _, it := range items {
		h := blackfriday.Run([]byte(it), blackfriday.WithNoExtensions())
		// Unwrap the single paragraph blackfriday adds around list items.
		trimmed := strings.TrimSpace(string(h))
		trimmed = strings.TrimPrefix(trimmed, "<p>")
		trimmed = strings.TrimSuffix(trimmed, "</p>")
		out = append(out, template.HTML(trimmed))
	}
	return out
}

var exportFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"variantClass": func(l model.Layout, variant int) string {
		return fmt.Sprintf("layout-%s variant-%d", l, variant)
	},
}

var exportTmpl = template.Must(template.New("export").Funcs(exportFuncs).Parse(exportHTML))

const exportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root {
  --bg: {{.Theme.Background}};
  --surface: {{.Theme.Surface}};
  --primary: {{.Theme.Primary}};
  --accent: {{.Theme.Accent}};
  --text: {{.Theme.Text}};
  --muted: {{.Theme.MutedText}};
}
* { box-sizing: border-box; margin: 0; }
body { background: var(--bg); color: var(--text); font-family: {{.Theme.BodyFont}}; overflow: hidden; }
h1, h2, h3 { font-family: {{.Theme.HeadingFont}}; }
.slide { position: absolute; inset: 0; display: none; padding: 6vmin 8vmin; flex-direction: column; justify-content: center; }
.slide.active { display: flex; }
.align-left { text-align: left; }
.align-center { text-align: center; }
.align-right { text-align: right; }
.slide h2 { font-size: 5vmin; color: var(--primary); margin-bottom: 2vmin; }
.subtitle { font-size: 3vmin; color: var(--muted); }
.body { font-size: 2.6vmin; line-height: 1.5; margin: 1.5vmin 0; }
ol.bullets { font-size: 2.4vmin; line-height: 1.8; padding-left: 4vmin; }
.split { display: flex; gap: 4vmin; align-items: center; }
.split > div { flex: 1; }
.media img { width: 100%; border-radius: 1vmin; }
.media-placeholder { display: flex; align-items: center; justify-content: center; aspect-ratio: 4/3;
  background: var(--surface); border-radius: 1vmin; color: var(--muted); font-size: 8vmin; }
.layout-full-image { padding: 0; justify-content: flex-end; }
.layout-full-image .bleed { position: absolute; inset: 0; background: var(--surface) center/cover no-repeat; }
.layout-full-image .overlay { position: relative; padding: 4vmin 8vmin; background: linear-gradient(transparent, rgba(0,0,0,.75)); }
.quote-mark { font-size: 14vmin; color: var(--accent); line-height: 1; }
blockquote { font-size: 4vmin; font-style: italic; margin: 2vmin 0; }
.attribution { color: var(--muted); font-size: 2.6vmin; }
.stats { display: grid; gap: 3vmin; margin-top: 4vmin; }
.stat { background: var(--surface); padding: 3vmin; border-radius: 1vmin; text-align: center; }
.stat .value { font-size: 5vmin; color: var(--accent); font-weight: 700; }
.stat .label { font-size: 2vmin; color: var(--muted); margin-top: 1vmin; }
.thanks-icon { font-size: 10vmin; color: var(--accent); }
.counter { position: fixed; bottom: 2vmin; right: 3vmin; color: var(--muted); font-size: 2vmin; z-index: 10; }
</style>
</head>
<body>
{{range .Slides}}
<section class="slide {{variantClass .Slide.Layout .Slide.LayoutVariant}} align-{{.Slide.TitleAlignment}}{{if eq .Index 0}} active{{end}}" data-index="{{.Index}}">
{{if eq .Slide.Layout "title"}}
  <h2 style="font-size:7vmin">{{.Slide.Title}}</h2>
  {{if .Slide.Subtitle}}<p class="subtitle">{{.Slide.Subtitle}}</p>{{end}}
{{else if eq .Slide.Layout "content"}}
  <h2>{{.Slide.Title}}</h2>
  {{if .BodyH}}<div class="body">{{.BodyH}}</div>{{end}}
  {{if .Bullets}}<ol class="bullets">{{range .Bullets}}<li>{{.}}</li>{{end}}</ol>{{end}}
{{else if eq .Slide.Layout "content-image"}}
  <div class="split">
    <div>
      <h2>{{.Slide.Title}}</h2>
      {{if .BodyH}}<div class="body">{{.BodyH}}</div>{{end}}
      {{if .Bullets}}<ol class="bullets">{{range .Bullets}}<li>{{.}}</li>{{end}}</ol>{{end}}
    </div>
    <div class="media">{{if .Slide.ImageURL}}<img src="{{.Slide.ImageURL}}" alt="{{.Slide.ImagePrompt}}">{{else}}<div class="media-placeholder">&#9783;</div>{{end}}</div>
  </div>
{{else if eq .Slide.Layout "image-content"}}
  <div class="split">
    <div class="media">{{if .Slide.ImageURL}}<img src="{{.Slide.ImageURL}}" alt="{{.Slide.ImagePrompt}}">{{else}}<div class="media-placeholder">&#9783;</div>{{end}}</div>
    <div>
      <h2>{{.Slide.Title}}</h2>
      {{if .BodyH}}<div class="body">{{.BodyH}}</div>{{end}}
      {{if .Bullets}}<ol class="bullets">{{range .Bullets}}<li>{{.}}</li>{{end}}</ol>{{end}}
    </div>
  </div>
{{else if eq .Slide.Layout "two-column"}}
  <h2>{{.Slide.Title}}</h2>
  <div class="split">
    <div>{{if .BodyH}}<div class="body">{{.BodyH}}</div>{{end}}{{with index .Columns 0}}<ol class="bullets">{{range .}}<li>{{.}}</li>{{end}}</ol>{{end}}</div>
    <div>{{if .Slide.Subtitle}}<p class="subtitle">{{.Slide.Subtitle}}</p>{{end}}{{with index .Columns 1}}<ol class="bullets">{{range .}}<li>{{.}}</li>{{end}}</ol>{{end}}</div>
  </div>
{{else if eq .Slide.Layout "full-image"}}
  <div class="bleed"{{if .Slide.ImageURL}} style="background-image:url('{{.Slide.ImageURL}}')"{{end}}></div>
  <div class="overlay">
    <h2>{{.Slide.Title}}</h2>
    {{if .BodyH}}<div class="body">{{.BodyH}}</div>{{end}}
  </div>
{{else if eq .Slide.Layout "quote"}}
  <div class="quote-mark">&ldquo;</div>
  <blockquote>{{.Slide.Quote}}</blockquote>
  {{if .Slide.QuoteAuthor}}<p class="attribution">&mdash; {{.Slide.QuoteAuthor}}</p>{{end}}
{{else if eq .Slide.Layout "stats"}}
  <h2>{{.Slide.Title}}</h2>
  {{if .BodyH}}<div class="body">{{.BodyH}}</div>{{end}}
  <div class="stats" style="grid-template-columns:repeat({{.Cols}},1fr)">
    {{range .Slide.Stats}}<div class="stat"><div class="value">{{.Value}}</div><div class="label">{{.Label}}</div></div>{{end}}
  </div>
{{else if eq .Slide.Layout "thank-you"}}
  <div class="thanks-icon">&#10038;</div>
  <h2>{{.Slide.Title}}</h2>
  {{if .BodyH}}<div class="body">{{.BodyH}}</div>{{end}}
{{else}}
  <h2>{{.Slide.Title}}</h2>
  {{if .BodyH}}<div class="body">{{.BodyH}}</div>{{end}}
  {{if .Bullets}}<ol class="bullets">{{range .Bullets}}<li>{{.}}</li>{{end}}</ol>{{end}}
{{end}}
</section>
{{end}}
<div class="counter"><span id="cur">1</span> / {{len .Slides}}</div>
<script>
(function () {
  var slides = document.querySelectorAll('.slide');
  var cur = 0;
  function show(i) {
    if (i < 0 || i >= slides.length) return;
    slides[cur].classList.remove('active');
    cur = i;
    slides[cur].classList.add('active');
    document.getElementById('cur').textContent = cur + 1;
  }
  document.addEventListener('keydown', function (e) {
    if (e.key === 'ArrowRight' || e.key === ' ' || e.key === 'PageDown') show(cur + 1);
    else if (e.key === 'ArrowLeft' || e.key === 'PageUp') show(cur - 1);
    else if (e.key === 'f') {
      if (document.fullscreenElement) document.exitFullscreen();
      else document.documentElement.requestFullscreen();
    }
  });
  var touchX = null;
  document.addEventListener('touchstart', function (e) { touchX = e.touches[0].clientX; });
  document.addEventListener('touchend', function (e) {
    if (touchX === null) return;
    var dx = e.changedTouches[0].clientX - touchX;
    if (dx < -40) show(cur + 1);
    else if (dx > 40) show(cur - 1);
    touchX = null;
  });
})();
</script>
</body>
</html>
`
