package sink

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/matzehuels/stowage/pkg/scene"
)

// DefaultThreeVersion is the three.js release the viewer loads.
const DefaultThreeVersion = "0.160.0"

//go:embed viewer.html.tmpl
var viewerSource string

var viewerTemplate = template.Must(template.New("viewer").Parse(viewerSource))

// HTMLOption configures HTML rendering.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title        string
	apiBase      string
	threeVersion string
	background   string
}

// WithHTMLTitle sets the page title.
func WithHTMLTitle(title string) HTMLOption { return func(r *htmlRenderer) { r.title = title } }

// WithAPIBase enables the parameter form. Submitting it posts the
// parameters to base+"/api/scene" and swaps in the returned scene.
func WithAPIBase(base string) HTMLOption { return func(r *htmlRenderer) { r.apiBase = base } }

// WithThreeVersion overrides the three.js version loaded from the CDN.
func WithThreeVersion(v string) HTMLOption { return func(r *htmlRenderer) { r.threeVersion = v } }

// WithHTMLBackground sets the page background. The default is white.
func WithHTMLBackground(color string) HTMLOption {
	return func(r *htmlRenderer) { r.background = color }
}

type viewerData struct {
	Title        string
	Doc          scene.Document
	Params       scene.Params
	Form         bool
	APIBase      string
	ThreeVersion string
	Background   string
}

// RenderHTML renders a standalone viewer page for s.
func RenderHTML(s scene.Scene, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{
		title:        "Stowage",
		threeVersion: DefaultThreeVersion,
		background:   "#ffffff",
	}
	for _, opt := range opts {
		opt(&r)
	}

	data := viewerData{
		Title:        r.title,
		Doc:          scene.NewDocument(s, nil),
		Params:       s.Params,
		Form:         r.apiBase != "",
		APIBase:      r.apiBase,
		ThreeVersion: r.threeVersion,
		Background:   r.background,
	}

	var buf bytes.Buffer
	if err := viewerTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute viewer template: %w", err)
	}
	return buf.Bytes(), nil
}
