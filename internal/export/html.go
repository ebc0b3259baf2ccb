package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"accordion-cli/internal/model"
	"accordion-cli/internal/outline"
	"accordion-cli/internal/store"
)

// Asset is an image that exists on disk and must be copied next to the
// exported document.
type Asset struct {
	NodeID     string `json:"nodeId"`
	SourcePath string `json:"sourcePath"`
	Name       string `json:"name"`
}

// Document is a rendered export: the HTML plus the assets it references and
// per-node warnings for assets that could not be resolved.
type Document struct {
	HTML     string   `json:"-"`
	Assets   []Asset  `json:"assets"`
	Warnings []string `json:"warnings"`
}

const assetsDirName = "assets"

// Render walks the document depth-first in sibling order and produces the
// full standalone HTML. Section numbers are derived purely from position.
// A missing image never fails the render; it becomes a visible placeholder
// and a warning.
func Render(db *store.DB) (Document, error) {
	if db == nil {
		return Document{}, fmt.Errorf("missing db")
	}

	doc := Document{Assets: []Asset{}, Warnings: []string{}}
	var body bytes.Buffer
	roots := db.Roots()
	for i, n := range roots {
		renderNode(&body, db, n, fmt.Sprintf("%d", i+1), 0, &doc)
	}

	var out bytes.Buffer
	if err := docTemplate.Execute(&out, docData{Body: template.HTML(body.String())}); err != nil {
		return Document{}, err
	}
	doc.HTML = out.String()
	return doc, nil
}

func renderNode(buf *bytes.Buffer, db *store.DB, n model.Node, number string, depth int, doc *Document) {
	itemClass := "accordion-item"
	headerClass := "accordion-header"
	contentClass := "accordion-content"
	arrowClass := "accordion-arrow"
	if depth > 0 {
		itemClass = "sub-accordion"
		headerClass = "sub-accordion-header"
		contentClass = "sub-accordion-content"
		arrowClass = "sub-arrow"
	}
	if n.Locked {
		itemClass += " locked"
	}

	lockBadge := ""
	if n.Locked {
		lockBadge = `<span class="lock-badge">locked</span>`
	}

	fmt.Fprintf(buf, `<div class="%s" id="%s">`+"\n", itemClass, template.HTMLEscapeString(n.ID))
	fmt.Fprintf(buf, `<button class="%s" onclick="toggleAccordion(this.parentElement)">`+
		`<span class="%s">➤</span>`+
		`<span class="section-number">%s</span>`+
		`<span class="title-text">%s</span>%s</button>`+"\n",
		headerClass, arrowClass, number, template.HTMLEscapeString(n.Title), lockBadge)
	fmt.Fprintf(buf, `<div class="%s">`+"\n", contentClass)

	if c := contentToHTML(n.Content); c != "" {
		buf.WriteString(c)
		buf.WriteString("\n")
	}
	if img := imageHTML(n, doc); img != "" {
		buf.WriteString(img)
		buf.WriteString("\n")
	}

	for i, ch := range db.ChildrenOf(n.ID) {
		renderNode(buf, db, ch, fmt.Sprintf("%s.%d", number, i+1), depth+1, doc)
	}

	buf.WriteString("</div>\n</div>\n")
}

// contentToHTML converts normalized node content: consecutive canonical
// bullet lines become one <ul>, anything else a <p>. Empty lines separate.
func contentToHTML(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	var parts []string
	var items []string
	flush := func() {
		if len(items) == 0 {
			return
		}
		var b strings.Builder
		b.WriteString("<ul>")
		for _, it := range items {
			b.WriteString("<li>")
			b.WriteString(template.HTMLEscapeString(it))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
		parts = append(parts, b.String())
		items = nil
	}

	for _, ln := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(ln, " \t")
		if strings.HasPrefix(trimmed, outline.CanonicalBullet) {
			items = append(items, strings.TrimSpace(strings.TrimPrefix(trimmed, outline.CanonicalBullet)))
			continue
		}
		flush()
		if strings.TrimSpace(ln) != "" {
			parts = append(parts, "<p>"+template.HTMLEscapeString(strings.TrimSpace(ln))+"</p>")
		}
	}
	flush()
	return strings.Join(parts, "\n")
}

// imageHTML resolves a node's image to either an <img> referencing the copied
// asset or a visible placeholder when the file is gone.
func imageHTML(n model.Node, doc *Document) string {
	src := strings.TrimSpace(n.ImagePath)
	if src == "" {
		return ""
	}
	if st, err := os.Stat(src); err != nil || st.IsDir() {
		doc.Warnings = append(doc.Warnings, AssetError{NodeID: n.ID, Path: src}.Error())
		return `<p class="img-missing">Image not found: ` + template.HTMLEscapeString(filepath.Base(src)) + `</p>`
	}
	name := assetName(n)
	doc.Assets = append(doc.Assets, Asset{NodeID: n.ID, SourcePath: src, Name: name})
	return `<img src="` + assetsDirName + `/` + template.HTMLEscapeString(name) + `" alt="` +
		template.HTMLEscapeString(n.Title) + ` image" class="acc-image">`
}

// assetName derives a collision-free output filename from the node id.
func assetName(n model.Node) string {
	ext := strings.ToLower(filepath.Ext(n.ImagePath))
	return n.ID + ext
}

type docData struct {
	Body template.HTML
}

var docTemplate = template.Must(template.New("doc").Parse(docHTML))

// The document shell: self-contained CSS-variable theme with a dark/light
// toggle and the accordion script. No network dependency; toggling the theme
// only flips a class on <html>, so expand/collapse state survives.
const docHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Accordion Notes</title>
<style>
    :root {
        --bg: #0f172a;
        --panel: #111827;
        --muted: #94a3b8;
        --text: #e5e7eb;
        --accent: #38bdf8;
        --border: #1f2937;
        --hover: rgba(2,132,199,0.12);
        --locked: #f59e0b;
    }
    :root.light {
        --bg: #ffffff;
        --panel: #f8fafc;
        --muted: #334155;
        --text: #111827;
        --accent: #0ea5e9;
        --border: #e5e7eb;
        --hover: rgba(14,165,233,0.12);
        --locked: #b45309;
    }
    * { box-sizing: border-box; }
    body {
        margin: 0; padding: 24px 16px;
        background: var(--bg);
        color: var(--text);
        font-family: Inter, system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif;
    }
    .wrap { max-width: 960px; margin: 0 auto; }
    .topbar {
        display: flex; gap: 12px; justify-content: space-between; align-items: center; margin-bottom: 16px;
    }
    .topbar h1 { font-size: 22px; margin: 0; }
    .theme-toggle {
        border: 1px solid var(--border); background: var(--panel);
        color: var(--text); padding: 8px 12px; border-radius: 8px; cursor: pointer;
    }
    .theme-toggle:hover { background: var(--hover); }
    .accordion { display: grid; gap: 12px; }
    .accordion-item, .sub-accordion {
        border: 1px solid var(--border); border-radius: 12px; background: var(--panel); overflow: hidden;
    }
    .accordion-header, .sub-accordion-header {
        width: 100%; text-align: left; cursor: pointer; background: transparent; color: var(--text); border: 0;
        padding: 12px 14px; display: flex; align-items: center; gap: 10px; font-weight: 600;
    }
    .accordion-header:hover, .sub-accordion-header:hover { background: var(--hover); }
    .accordion-arrow, .sub-arrow {
        display: inline-block; margin-right: 2px; transition: transform 0.2s ease; color: var(--accent);
    }
    .accordion-item.active > .accordion-header .accordion-arrow,
    .sub-accordion.active > .sub-accordion-header .sub-arrow { transform: rotate(90deg); }
    .accordion-content, .sub-accordion-content {
        display: none; padding: 14px 16px 16px; border-top: 1px solid var(--border); color: var(--text);
    }
    .accordion-item.active > .accordion-content, .sub-accordion.active > .sub-accordion-content { display: block; }
    .section-number { color: var(--muted); font-weight: 500; }
    .locked > .accordion-header .title-text,
    .locked > .sub-accordion-header .title-text { color: var(--locked); }
    .lock-badge {
        margin-left: auto; font-size: 11px; font-weight: 500; text-transform: uppercase;
        color: var(--locked); border: 1px solid var(--locked); border-radius: 6px; padding: 1px 6px;
    }
    ul { margin: 8px 0 8px 22px; }
    li { margin: 4px 0; }
    p { margin: 8px 0; color: var(--muted); }
    .acc-image {
        max-width: 100%; height: auto; border-radius: 8px; border: 1px solid var(--border); margin-top: 8px;
        box-shadow: 0 6px 16px rgba(0,0,0,0.12);
    }
    .img-missing { color: #ef4444; font-size: 12px; }
    @media (max-width: 640px) {
        .wrap { max-width: 100%; }
        .accordion-header, .sub-accordion-header { padding: 10px 12px; }
        .accordion-content, .sub-accordion-content { padding: 10px 12px; }
        .topbar h1 { font-size: 18px; }
    }
</style>
</head>
<body>
<div class="wrap">
    <div class="topbar">
        <h1>Accordion Notes</h1>
        <button class="theme-toggle" onclick="toggleTheme()">Toggle Dark/Light</button>
    </div>
    <div class="accordion">
{{.Body}}    </div>
</div>
<script>
function toggleAccordion(element) { element.classList.toggle('active'); }
function toggleTheme() { document.documentElement.classList.toggle('light'); }
</script>
</body>
</html>
`
