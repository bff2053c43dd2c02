package i18n

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
)

var translations = make(map[string]map[string]string)

// Built-in English strings so step labels work without resource files.
var fallback = map[string]string{
	"step.analyze.title":          "Analyzing topic",
	"step.analyze.desc":           "Understanding the subject and audience",
	"step.research.title":         "Researching",
	"step.research.desc":          "Collecting angles and supporting material",
	"step.structure.title":        "Structuring",
	"step.structure.desc":         "Planning the narrative arc and layouts",
	"step.generate-content.title": "Generating content",
	"step.generate-content.desc":  "Writing slide text with the AI provider",
	"step.enrich-images.title":    "Adding images",
	"step.enrich-images.desc":     "Resolving imagery for the slides",
	"step.style.title":            "Styling",
	"step.style.desc":             "Applying the theme",
	"step.finalize.title":         "Finalizing",
	"step.finalize.desc":          "Saving the presentation",
}

func Init() {
	files, _ := os.ReadDir("resources/lang")
	for _, f := range files {
		if filepath.Ext(f.Name()) == ".json" {
			lang := f.Name()[:len(f.Name())-5]
			data, _ := os.ReadFile(filepath.Join("resources/lang", f.Name()))
			var t map[string]string
			json.Unmarshal(data, &t)
			translations[lang] = t
		}
	}
}

func T(lang, key string) string {
	if t, ok := translations[lang]; ok {
		if val, ok := t[key]; ok {
			return val
		}
	}
	// Fallback to en
	if t, ok := translations["en"]; ok {
		if val, ok := t[key]; ok {
			return val
		}
	}
	if val, ok := fallback[key]; ok {
		return val
	}
	return key
}

func GetLang(r *http.Request) string {
	cookie, err := r.Cookie("lang")
	if err == nil {
		return cookie.Value
	}
	return "en"
}
