package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/observability"
	"github.com/matzehuels/stowage/pkg/scene"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"html", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"stl", false},
		{"xlsx", false},
		{"chart", false},
		{"graph", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateView(t *testing.T) {
	tests := []struct {
		view    string
		wantErr bool
	}{
		{"iso", false},
		{"front", false},
		{"side", false},
		{"top", false},
		{"back", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateView(tt.view)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateView(%q) error = %v, wantErr %v", tt.view, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidView) {
			t.Errorf("ValidateView(%q) code = %s, want INVALID_VIEW", tt.view, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" svg, ,png,")
	if len(got) != 2 || got[0] != "svg" || got[1] != "png" {
		t.Errorf("ParseFormats = %v, want [svg png]", got)
	}
	if ParseFormats("") != nil {
		t.Error("empty input should give no formats")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should be [json], got %v", opts.Formats)
	}
	if opts.View != DefaultView {
		t.Errorf("View should be %s, got %s", DefaultView, opts.View)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width should be %f, got %f", DefaultWidth, opts.Width)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height should be %f, got %f", DefaultHeight, opts.Height)
	}
	if opts.MeshCells != DefaultMeshCells {
		t.Errorf("MeshCells should be %d, got %d", DefaultMeshCells, opts.MeshCells)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestSetBuildDefaultsFillsColors(t *testing.T) {
	opts := Options{Params: scene.Params{Length: 1, Width: 1, Height: 1}}
	opts.SetBuildDefaults()
	if opts.Params.ItemColor != scene.DefaultItemColor {
		t.Errorf("ItemColor = %q, want %q", opts.Params.ItemColor, scene.DefaultItemColor)
	}
	if opts.Params.Length != 1 {
		t.Error("SetBuildDefaults must not touch dimensions")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Params: scene.DefaultParams()}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.View != first.View || opts.Width != first.Width || len(opts.Formats) != len(first.Formats) {
		t.Error("options changed on second call")
	}
}

func TestValidateForRenderRejectsNegativeFrame(t *testing.T) {
	opts := Options{Width: -1}
	err := opts.ValidateForRender()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative width should be INVALID_INPUT, got %v", err)
	}
}

func TestAspect(t *testing.T) {
	opts := Options{Width: 1600, Height: 800}
	if got := opts.Aspect(); got != 2 {
		t.Errorf("Aspect = %v, want 2", got)
	}
	opts = Options{}
	if got := opts.Aspect(); got != scene.DefaultAspect {
		t.Errorf("Aspect of unset frame = %v, want %v", got, scene.DefaultAspect)
	}
}

func TestArtifactKeyOptsPerFormat(t *testing.T) {
	opts := Options{View: "top", Width: 640, Height: 480, MeshCells: 50, Background: "#fff"}

	stl := opts.ArtifactKeyOpts(FormatSTL)
	if stl.View != "" || stl.MeshCells != 50 {
		t.Errorf("stl key opts = %+v, want mesh cells only", stl)
	}

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.View != "top" || svg.Width != 640 || svg.MeshCells != 0 {
		t.Errorf("svg key opts = %+v", svg)
	}

	xlsx := opts.ArtifactKeyOpts(FormatXLSX)
	if xlsx != (cache.ArtifactKeyOpts{Format: FormatXLSX}) {
		t.Errorf("xlsx key opts should only carry the format, got %+v", xlsx)
	}
}

// memCache is an in-memory Cache that counts operations.
type memCache struct {
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.sets++
	c.data[key] = append([]byte(nil), data...)
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func TestExecuteBuildsAndRenders(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Params:  scene.DefaultParams(),
		Formats: []string{FormatJSON, FormatSVG, FormatXLSX},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.ItemCount != 10 {
		t.Errorf("ItemCount = %d, want 10", res.Stats.ItemCount)
	}
	if res.Stats.ColumnCount != res.Report.Columns {
		t.Errorf("ColumnCount = %d, report says %d", res.Stats.ColumnCount, res.Report.Columns)
	}
	if res.SceneHash == "" {
		t.Error("SceneHash should be set")
	}
	for _, f := range []string{FormatJSON, FormatSVG, FormatXLSX} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}

	var doc struct {
		Scene  scene.Scene   `json:"scene"`
		Report *scene.Report `json:"report"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(doc.Scene.Items) != 10 || doc.Report == nil {
		t.Errorf("json artifact should carry 10 items and a report")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact should start with <svg")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Params: scene.DefaultParams(), Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}

	_, err = r.Execute(ctx, Options{Params: scene.DefaultParams(), View: "under"})
	if !errors.Is(err, errors.ErrCodeInvalidView) {
		t.Errorf("unknown view error = %v", err)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()
	opts := Options{Params: scene.DefaultParams(), Formats: []string{FormatJSON, FormatSVG}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if c.sets != 3 {
		t.Errorf("first run should store scene + 2 artifacts, stored %d", c.sets)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache: %+v", second.CacheInfo)
	}
	if second.SceneHash != first.SceneHash {
		t.Error("cached scene should hash the same")
	}
	if !bytes.Equal(second.Artifacts[FormatSVG], first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	// Refresh bypasses lookups but still writes.
	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.BuildHit || third.CacheInfo.RenderHit {
		t.Error("refresh should not read the cache")
	}
}

func TestExecutePartialArtifactHit(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Params: scene.DefaultParams(), Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Params: scene.DefaultParams(), Formats: []string{FormatSVG, FormatChart}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("RenderHit should be false when any format was rendered")
	}
	if len(res.Artifacts[FormatSVG]) == 0 || len(res.Artifacts[FormatChart]) == 0 {
		t.Error("both artifacts should be returned")
	}
}

func TestBuildCameraFollowsFrame(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()

	wide, err := r.Build(ctx, Options{Params: scene.DefaultParams(), Width: 1600, Height: 800})
	if err != nil {
		t.Fatal(err)
	}
	square, hit, err := r.BuildWithCacheInfo(ctx, Options{Params: scene.DefaultParams(), Width: 500, Height: 500})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("same params should hit the scene cache")
	}
	if wide.Camera.Aspect != 2 || square.Camera.Aspect != 1 {
		t.Errorf("aspects = %v, %v; want 2, 1", wide.Camera.Aspect, square.Camera.Aspect)
	}
}

func TestRenderSavedScene(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	s := scene.Build(scene.DefaultParams())

	artifacts, err := r.Render(context.Background(), s, Options{Formats: []string{FormatHTML, FormatChart}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(artifacts[FormatHTML], []byte("three")) {
		t.Error("html artifact should load three.js")
	}
	if len(artifacts[FormatChart]) == 0 {
		t.Error("chart artifact is empty")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	builds  int
	renders []string
}

func (h *recordingHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {
	h.builds++
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, _ error) {
	h.renders = append(h.renders, formats...)
}

func TestExecuteFiresHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)

	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Execute(context.Background(), Options{Params: scene.DefaultParams(), Formats: []string{FormatJSON}}); err != nil {
		t.Fatal(err)
	}
	if h.builds != 1 {
		t.Errorf("OnBuildComplete fired %d times, want 1", h.builds)
	}
	if len(h.renders) != 1 || h.renders[0] != FormatJSON {
		t.Errorf("OnRenderComplete formats = %v", h.renders)
	}
}

func TestSceneHashDeterministic(t *testing.T) {
	a := scene.Build(scene.DefaultParams())
	b := scene.Build(scene.DefaultParams())
	if SceneHash(a) != SceneHash(b) {
		t.Error("identical scenes should hash the same")
	}
	p := scene.DefaultParams()
	p.NumItems = 3
	if SceneHash(scene.Build(p)) == SceneHash(a) {
		t.Error("different scenes should hash differently")
	}
}
