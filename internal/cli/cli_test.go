package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/config"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/scene"
	"github.com/matzehuels/stowage/pkg/store"
)

// writeConfig writes a config that disables caching and keeps presets in dir.
func writeConfig(t *testing.T, dir string, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "stowage.toml")
	body := "[cache]\nbackend = \"none\"\n\n[store]\nbackend = \"file\"\ndir = \"" +
		filepath.ToSlash(filepath.Join(dir, "presets")) + "\"\n" + extra
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args.
func run(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"build", "render", "serve", "watch", "edit", "preset", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root should have a --config flag")
	}
}

func TestSceneFlagsApply(t *testing.T) {
	var sf sceneFlags
	cmd := &cobra.Command{Use: "x"}
	sf.register(cmd.Flags())
	if err := cmd.Flags().Parse([]string{"--length", "12.19", "-n", "3", "--item-color", "#00ff00"}); err != nil {
		t.Fatal(err)
	}

	base := scene.DefaultParams()
	base.Gap = 0.25
	got := sf.apply(cmd.Flags(), base)

	if got.Length != 12.19 {
		t.Errorf("Length = %v, want 12.19", got.Length)
	}
	if got.NumItems != 3 {
		t.Errorf("NumItems = %v, want 3", got.NumItems)
	}
	if got.ItemColor != "#00ff00" {
		t.Errorf("ItemColor = %q, want #00ff00", got.ItemColor)
	}
	if got.Gap != 0.25 {
		t.Errorf("Gap = %v, unset flags should keep the base value 0.25", got.Gap)
	}
	if got.Width != base.Width {
		t.Errorf("Width = %v, want base %v", got.Width, base.Width)
	}
}

func TestOutputFlagsOptions(t *testing.T) {
	rc := config.RenderConfig{Formats: []string{"html"}, View: "top", Width: 1024}

	tests := []struct {
		name        string
		args        []string
		wantFormats []string
		wantView    string
		wantWidth   float64
	}{
		{"config only", nil, []string{"html"}, "top", 1024},
		{"flags override", []string{"-f", "svg, png", "--view", "front", "--width", "640"}, []string{"svg", "png"}, "front", 640},
		{"partial override", []string{"--view", "side"}, []string{"html"}, "side", 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var of outputFlags
			cmd := &cobra.Command{Use: "x"}
			of.register(cmd.Flags())
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			opts := of.options(cmd.Flags(), rc)
			if strings.Join(opts.Formats, ",") != strings.Join(tt.wantFormats, ",") {
				t.Errorf("Formats = %v, want %v", opts.Formats, tt.wantFormats)
			}
			if opts.View != tt.wantView {
				t.Errorf("View = %q, want %q", opts.View, tt.wantView)
			}
			if opts.Width != tt.wantWidth {
				t.Errorf("Width = %v, want %v", opts.Width, tt.wantWidth)
			}
		})
	}
}

func TestOutputFlagsDefaultFormat(t *testing.T) {
	var of outputFlags
	cmd := &cobra.Command{Use: "x"}
	of.register(cmd.Flags())
	opts := of.options(cmd.Flags(), config.RenderConfig{})
	if len(opts.Formats) != 1 || opts.Formats[0] != pipeline.FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"scene", "scene"},
		{"out/scene.svg", "out/scene"},
		{"scene.chart.html", "scene"},
		{"scene.graph.svg", "scene"},
		{"scene.html", "scene"},
		{"scene.v2", "scene.v2"},
		{".json", ".json"},
	}
	for _, tt := range tests {
		if got := stem(tt.in); got != tt.want {
			t.Errorf("stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "nested", "cargo.svg")
	artifacts := map[string][]byte{
		pipeline.FormatSVG:   []byte("<svg/>"),
		pipeline.FormatChart: []byte("<html/>"),
	}

	written, err := writeArtifacts(artifacts, []string{pipeline.FormatSVG, pipeline.FormatChart, pipeline.FormatPNG}, base)
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "nested", "cargo.svg"),
		filepath.Join(dir, "nested", "cargo.chart.html"),
	}
	if strings.Join(written, "|") != strings.Join(want, "|") {
		t.Errorf("written = %v, want %v", written, want)
	}
	data, err := os.ReadFile(want[0])
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg content = %q, %v", data, err)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")
	out := filepath.Join(dir, "cargo")

	if err := run(t, "build", "--config", cfg, "-f", "json,svg", "-o", out, "-n", "5", "--length", "12.19"); err != nil {
		t.Fatalf("build error: %v", err)
	}

	doc, err := scene.ReadFile(out + ".json")
	if err != nil {
		t.Fatalf("read built scene: %v", err)
	}
	if len(doc.Scene.Items) != 5 {
		t.Errorf("items = %d, want 5", len(doc.Scene.Items))
	}
	if doc.Scene.Params.Length != 12.19 {
		t.Errorf("length = %v, want 12.19", doc.Scene.Params.Length)
	}
	if doc.Report == nil {
		t.Error("built scene should include the analysis report")
	}
	if _, err := os.Stat(out + ".svg"); err != nil {
		t.Errorf("svg not written: %v", err)
	}
}

func TestBuildCommandInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")

	err := run(t, "build", "--config", cfg, "-f", "gif", "-o", filepath.Join(dir, "x"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("build -f gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestBuildCommandUsesConfigScene(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "\n[scene]\nnum_items = 7\n")
	out := filepath.Join(dir, "cfg")

	if err := run(t, "build", "--config", cfg, "-o", out); err != nil {
		t.Fatalf("build error: %v", err)
	}
	doc, err := scene.ReadFile(out + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Scene.Items) != 7 {
		t.Errorf("items = %d, want 7 from config", len(doc.Scene.Items))
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")
	base := filepath.Join(dir, "scene")

	if err := run(t, "build", "--config", cfg, "-o", base); err != nil {
		t.Fatalf("build error: %v", err)
	}
	if err := run(t, "render", "--config", cfg, base+".json"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("render should write scene.svg: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("rendered file should be an SVG")
	}
}

func TestRenderCommandRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")
	base := filepath.Join(dir, "scene")

	if err := run(t, "build", "--config", cfg, "-o", base); err != nil {
		t.Fatalf("build error: %v", err)
	}
	err := run(t, "render", "--config", cfg, "-f", "json", base+".json")
	if err == nil || !strings.Contains(err.Error(), "overwrite") {
		t.Errorf("render onto its own input error = %v, want overwrite error", err)
	}
}

func TestRenderCommandMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")
	if err := run(t, "render", "--config", cfg, filepath.Join(dir, "nope.json")); err == nil {
		t.Error("render of a missing file should fail")
	}
}

func TestPresetCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")

	if err := run(t, "preset", "save", "reefer", "--config", cfg, "--length", "12.19", "-n", "24"); err != nil {
		t.Fatalf("preset save error: %v", err)
	}
	if err := run(t, "preset", "list", "--config", cfg); err != nil {
		t.Fatalf("preset list error: %v", err)
	}
	if err := run(t, "preset", "show", "reefer", "--config", cfg); err != nil {
		t.Fatalf("preset show error: %v", err)
	}

	s, err := store.NewFileStore(filepath.Join(dir, "presets"))
	if err != nil {
		t.Fatal(err)
	}
	p, err := s.FindByName(context.Background(), "reefer")
	if err != nil {
		t.Fatalf("saved preset not found: %v", err)
	}
	if p.Params.Length != 12.19 || p.Params.NumItems != 24 {
		t.Errorf("saved params = %+v", p.Params)
	}

	// Saving again under the same name keeps the id.
	if err := run(t, "preset", "save", "reefer", "--config", cfg, "-n", "30"); err != nil {
		t.Fatalf("preset resave error: %v", err)
	}
	again, err := s.FindByName(context.Background(), "reefer")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != p.ID || again.Params.NumItems != 30 {
		t.Errorf("resave: id %s -> %s, items %d", p.ID, again.ID, again.Params.NumItems)
	}

	out := filepath.Join(dir, "from-preset")
	if err := run(t, "build", "--config", cfg, "--preset", "reefer", "-o", out); err != nil {
		t.Fatalf("build --preset error: %v", err)
	}
	doc, err := scene.ReadFile(out + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Scene.Items) != 30 {
		t.Errorf("build --preset items = %d, want 30", len(doc.Scene.Items))
	}

	if err := run(t, "preset", "delete", "reefer", "--config", cfg); err != nil {
		t.Fatalf("preset delete error: %v", err)
	}
	err = run(t, "preset", "show", "reefer", "--config", cfg)
	if !errors.Is(err, errors.ErrCodePresetNotFound) {
		t.Errorf("show after delete error = %v, want PRESET_NOT_FOUND", err)
	}
}

func TestPresetSaveInvalidName(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")
	err := run(t, "preset", "save", "   ", "--config", cfg)
	if !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("blank preset name error = %v, want INVALID_NAME", err)
	}
}

func TestPresetError(t *testing.T) {
	err := presetError("reefer", store.ErrNotFound)
	if !errors.Is(err, errors.ErrCodePresetNotFound) {
		t.Errorf("presetError(ErrNotFound) = %v, want PRESET_NOT_FOUND", err)
	}
	other := io.ErrUnexpectedEOF
	if got := presetError("reefer", other); got != other {
		t.Errorf("presetError should pass other errors through, got %v", got)
	}
}

func TestCachePathFollowsConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "")
	// backend "none" has no directory
	if err := run(t, "cache", "path", "--config", cfg); err == nil {
		t.Error("cache path with backend none should fail")
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "ab")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{filepath.Join(dir, "a.json"), filepath.Join(sub, "b.json")} {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if n != 2 {
		t.Errorf("clearDir() removed %d files, want 2", n)
	}
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Error("clearDir() should remove emptied subdirectories")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("clearDir() should keep the cache directory itself")
	}

	if n, err := clearDir(filepath.Join(dir, "missing")); err != nil || n != 0 {
		t.Errorf("clearDir(missing) = %d, %v; want 0, nil", n, err)
	}
}

func TestViewerURL(t *testing.T) {
	tests := []struct{ addr, want string }{
		{":8080", "http://localhost:8080/"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000/"},
	}
	for _, tt := range tests {
		if got := viewerURL(tt.addr); got != tt.want {
			t.Errorf("viewerURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestFillBar(t *testing.T) {
	tests := []struct {
		n, capacity int
		want        string
	}{
		{4, 4, "██████████"},
		{2, 4, "█████░░░░░"},
		{0, 4, "░░░░░░░░░░"},
		{3, 0, "███░░░░░░░"},
		{30, 0, "██████████"},
	}
	for _, tt := range tests {
		if got := fillBar(tt.n, tt.capacity); got != tt.want {
			t.Errorf("fillBar(%d, %d) = %q, want %q", tt.n, tt.capacity, got, tt.want)
		}
	}
}

func TestColumnTable(t *testing.T) {
	r := scene.Analyze(scene.Build(scene.DefaultParams()))
	out := columnTable(r)
	for _, want := range []string{"Column", "Capacity", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("columnTable() missing %q:\n%s", want, out)
		}
	}
}

// =============================================================================
// edit
// =============================================================================

func TestEditModelSubmitRebuilds(t *testing.T) {
	m := newEditModel(scene.DefaultParams())
	before := m.stage.Revision(scene.CategoryItems)

	m.inputs[5].SetValue("3") // Items
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(editModel)

	if m.err != nil {
		t.Fatalf("submit error: %v", m.err)
	}
	if got := len(m.stage.Snapshot().Items); got != 3 {
		t.Errorf("items after submit = %d, want 3", got)
	}
	for _, c := range scene.Categories {
		if m.stage.Revision(c) != before+1 {
			t.Errorf("revision(%s) = %d, want %d", c, m.stage.Revision(c), before+1)
		}
	}
	if m.report.Columns != 1 {
		t.Errorf("report columns = %d, want 1", m.report.Columns)
	}
}

func TestEditModelBadNumberKeepsStage(t *testing.T) {
	m := newEditModel(scene.DefaultParams())
	rev := m.stage.Revision(scene.CategoryContainer)

	m.inputs[0].SetValue("long")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(editModel)

	if !errors.Is(m.err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", m.err)
	}
	if m.stage.Revision(scene.CategoryContainer) != rev {
		t.Error("a bad field should not rebuild the stage")
	}
	if m.stage.Params().Length != scene.DefaultLength {
		t.Errorf("Length = %v, want unchanged default", m.stage.Params().Length)
	}
}

func TestEditModelResizeKeepsGeometry(t *testing.T) {
	m := newEditModel(scene.DefaultParams())
	rev := m.stage.Revision(scene.CategoryItems)
	renders := m.stage.Renders()

	next, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})
	m = next.(editModel)

	if got := m.stage.Camera().Aspect; got != 4 {
		t.Errorf("aspect = %v, want 4", got)
	}
	if m.stage.Revision(scene.CategoryItems) != rev {
		t.Error("resize should not rebuild geometry")
	}
	if m.stage.Renders() != renders+1 {
		t.Errorf("renders = %d, want %d", m.stage.Renders(), renders+1)
	}
}

func TestEditModelFocusCycles(t *testing.T) {
	m := newEditModel(scene.DefaultParams())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(editModel)
	if m.focus != len(editFields)-1 {
		t.Errorf("focus after shift+tab = %d, want last field", m.focus)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(editModel)
	if m.focus != 0 {
		t.Errorf("focus after tab = %d, want 0", m.focus)
	}
}

func TestEditModelEmptyColorUsesDefault(t *testing.T) {
	m := newEditModel(scene.DefaultParams())
	m.inputs[len(editFields)-1].SetValue("") // Items color
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(editModel)

	if got := m.stage.Params().ItemColor; got != scene.DefaultItemColor {
		t.Errorf("ItemColor = %q, want default %q", got, scene.DefaultItemColor)
	}
	if got := m.inputs[len(editFields)-1].Value(); got != scene.DefaultItemColor {
		t.Errorf("input after submit = %q, want the filled default", got)
	}
}

// =============================================================================
// watch
// =============================================================================

func TestWatchSessionUpdate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(src, []byte("[scene]\nnum_items = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := pipeline.NewRunner(nil, nil, newLogger(io.Discard, LogInfo))
	opts := pipeline.Options{Formats: []string{pipeline.FormatJSON}}
	base := filepath.Join(dir, "out")

	ws, err := newWatchSession(src, runner, opts, base, runner.Logger)
	if err != nil {
		t.Fatalf("newWatchSession() error: %v", err)
	}
	ctx := context.Background()
	if err := ws.write(ctx); err != nil {
		t.Fatalf("write() error: %v", err)
	}
	assertItems(t, base+".json", 2)

	if err := os.WriteFile(src, []byte("[scene]\nnum_items = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ws.update(ctx)
	assertItems(t, base+".json", 6)
	if ws.stage.Revision(scene.CategoryItems) != 2 {
		t.Errorf("items revision = %d, want 2", ws.stage.Revision(scene.CategoryItems))
	}

	// A broken save keeps the previous outputs.
	if err := os.WriteFile(src, []byte("[scene\nnum_items = "), 0o644); err != nil {
		t.Fatal(err)
	}
	ws.update(ctx)
	assertItems(t, base+".json", 6)
}

func TestWatchSessionMissingFile(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, newLogger(io.Discard, LogInfo))
	_, err := newWatchSession(filepath.Join(t.TempDir(), "none.toml"), runner, pipeline.Options{}, "out", runner.Logger)
	if err == nil {
		t.Error("newWatchSession() on a missing file should fail")
	}
}

func assertItems(t *testing.T, path string, want int) {
	t.Helper()
	doc, err := scene.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(doc.Scene.Items) != want {
		t.Errorf("%s has %d items, want %d", filepath.Base(path), len(doc.Scene.Items), want)
	}
}
