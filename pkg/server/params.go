package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/scene"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type floatField struct {
	name string
	dst  func(*scene.Params) *float64
}

var floatFields = []floatField{
	{"length", func(p *scene.Params) *float64 { return &p.Length }},
	{"width", func(p *scene.Params) *float64 { return &p.Width }},
	{"height", func(p *scene.Params) *float64 { return &p.Height }},
	{"item_width", func(p *scene.Params) *float64 { return &p.ItemWidth }},
	{"item_height", func(p *scene.Params) *float64 { return &p.ItemHeight }},
	{"gap", func(p *scene.Params) *float64 { return &p.Gap }},
	{"floor_opacity", func(p *scene.Params) *float64 { return &p.FloorOpacity }},
}

type stringField struct {
	name string
	dst  func(*scene.Params) *string
}

var colorFields = []stringField{
	{"container_color", func(p *scene.Params) *string { return &p.ContainerColor }},
	{"door_color", func(p *scene.Params) *string { return &p.DoorColor }},
	{"floor_color", func(p *scene.Params) *string { return &p.FloorColor }},
	{"item_color", func(p *scene.Params) *string { return &p.ItemColor }},
}

// paramsFromValues overlays the fields present in v on base. Empty fields
// keep the base value. Numbers must parse; nothing else is checked.
func paramsFromValues(v url.Values, base scene.Params) (scene.Params, error) {
	p := base
	for _, f := range floatFields {
		raw := v.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := errors.ParseFloat(f.name, raw)
		if err != nil {
			return scene.Params{}, err
		}
		*f.dst(&p) = n
	}
	if raw := v.Get("num_items"); raw != "" {
		n, err := errors.ParseInt("num_items", raw)
		if err != nil {
			return scene.Params{}, err
		}
		p.NumItems = n
	}
	for _, f := range colorFields {
		if raw := v.Get(f.name); raw != "" {
			*f.dst(&p) = raw
		}
	}
	return p, nil
}

// paramsFromRequest reads params from the query string, a form body or a
// JSON body, on top of base.
func paramsFromRequest(r *http.Request, base scene.Params) (scene.Params, error) {
	if r.Method != http.MethodPost {
		return paramsFromValues(r.URL.Query(), base)
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		p := base
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return scene.Params{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
		}
		return p.WithColorDefaults(), nil
	}

	if err := r.ParseForm(); err != nil {
		return scene.Params{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid form body")
	}
	return paramsFromValues(r.Form, base)
}

// renderOptions reads frame options from the query string.
func renderOptions(v url.Values, opts *pipeline.Options) error {
	if view := v.Get("view"); view != "" {
		opts.View = view
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"frame_width", &opts.Width}, {"frame_height", &opts.Height}} {
		if raw := v.Get(f.name); raw != "" {
			n, err := errors.ParseFloat(f.name, raw)
			if err != nil {
				return err
			}
			*f.dst = n
		}
	}
	if raw := v.Get("mesh_cells"); raw != "" {
		n, err := errors.ParseInt("mesh_cells", raw)
		if err != nil {
			return err
		}
		opts.MeshCells = n
	}
	if raw := v.Get("labels"); raw != "" {
		opts.Labels = truthy(raw)
	}
	if raw := v.Get("floor_slab"); raw != "" {
		opts.FloorSlab = truthy(raw)
	}
	if bg := v.Get("background"); bg != "" {
		opts.Background = bg
	}
	return nil
}

func truthy(raw string) bool {
	return raw == "1" || raw == "true" || raw == "on"
}
