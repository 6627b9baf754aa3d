package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/scene"
)

// editCommand creates the interactive parameter editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		sf         sceneFlags
		presetRef  string
		savePreset string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Adjust parameters in an interactive terminal form",
		Long: `Adjust parameters in an interactive terminal form.

Edit the fields and press enter to rebuild the scene; the column table
and placement warnings update on every submit. Press esc to finish.
The final parameters are printed as a [scene] config section and can be
saved as a preset with --save.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			base := cfg.Scene
			if presetRef != "" {
				if base, err = c.presetParams(ctx, cfg.Store, presetRef); err != nil {
					return err
				}
			}

			m := newEditModel(sf.apply(cmd.Flags(), base))
			final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("run editor: %w", err)
			}
			p := final.(editModel).stage.Params()

			if err := printSceneTOML(p); err != nil {
				return err
			}
			if savePreset == "" {
				return nil
			}

			s, err := openStore(ctx, cfg.Store)
			if err != nil {
				return fmt.Errorf("open preset store: %w", err)
			}
			defer s.Close()
			return savePresetParams(ctx, s, savePreset, p)
		},
	}

	sf.register(cmd.Flags())
	cmd.Flags().StringVar(&presetRef, "preset", "", "start from a saved preset (id or name)")
	cmd.Flags().StringVar(&savePreset, "save", "", "save the final parameters as a preset with this name")

	return cmd
}

// printSceneTOML writes p as a [scene] config section to stdout.
func printSceneTOML(p scene.Params) error {
	doc := struct {
		Scene scene.Params `toml:"scene"`
	}{p}
	return toml.NewEncoder(os.Stdout).Encode(doc)
}

// =============================================================================
// Form fields
// =============================================================================

// editField is one row of the form.
type editField struct {
	label string
	get   func(scene.Params) string
	set   func(*scene.Params, string) error
}

func floatField(label, key string, ptr func(*scene.Params) *float64) editField {
	return editField{
		label: label,
		get: func(p scene.Params) string {
			return strconv.FormatFloat(*ptr(&p), 'g', -1, 64)
		},
		set: func(p *scene.Params, raw string) error {
			v, err := errors.ParseFloat(key, raw)
			if err != nil {
				return err
			}
			*ptr(p) = v
			return nil
		},
	}
}

// colorField accepts any string, like the builder does. An empty field
// falls back to the default color on rebuild.
func colorField(label string, ptr func(*scene.Params) *string) editField {
	return editField{
		label: label,
		get:   func(p scene.Params) string { return *ptr(&p) },
		set: func(p *scene.Params, raw string) error {
			*ptr(p) = strings.TrimSpace(raw)
			return nil
		},
	}
}

var editFields = []editField{
	floatField("Length", "length", func(p *scene.Params) *float64 { return &p.Length }),
	floatField("Width", "width", func(p *scene.Params) *float64 { return &p.Width }),
	floatField("Height", "height", func(p *scene.Params) *float64 { return &p.Height }),
	floatField("Item width", "item_width", func(p *scene.Params) *float64 { return &p.ItemWidth }),
	floatField("Item height", "item_height", func(p *scene.Params) *float64 { return &p.ItemHeight }),
	{
		label: "Items",
		get:   func(p scene.Params) string { return strconv.Itoa(p.NumItems) },
		set: func(p *scene.Params, raw string) error {
			n, err := errors.ParseInt("num_items", raw)
			if err != nil {
				return err
			}
			p.NumItems = n
			return nil
		},
	},
	floatField("Gap", "gap", func(p *scene.Params) *float64 { return &p.Gap }),
	colorField("Container", func(p *scene.Params) *string { return &p.ContainerColor }),
	colorField("Doors", func(p *scene.Params) *string { return &p.DoorColor }),
	colorField("Floor", func(p *scene.Params) *string { return &p.FloorColor }),
	floatField("Floor opacity", "floor_opacity", func(p *scene.Params) *float64 { return &p.FloorOpacity }),
	colorField("Items color", func(p *scene.Params) *string { return &p.ItemColor }),
}

// =============================================================================
// editModel - bubbletea form over a Stage
// =============================================================================

var (
	editLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	editFocusStyle   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Width(14)
	editErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	editHelpStyle    = lipgloss.NewStyle().Foreground(colorDim)
	editSectionStyle = lipgloss.NewStyle().MarginTop(1)
)

// editModel holds one text input per parameter. Submitting rebuilds the
// whole stage; a window resize only changes the camera aspect.
type editModel struct {
	inputs []textinput.Model
	focus  int
	stage  *scene.Stage
	report scene.Report
	err    error
}

func newEditModel(p scene.Params) editModel {
	m := editModel{
		inputs: make([]textinput.Model, len(editFields)),
		stage:  scene.NewStage(p.WithColorDefaults(), scene.DefaultAspect),
	}
	for i, f := range editFields {
		ti := textinput.New()
		ti.CharLimit = 16
		ti.Width = 16
		ti.SetValue(f.get(m.stage.Params()))
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	m.report = scene.Analyze(m.stage.Snapshot())
	return m
}

func (m editModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "down":
			cmd := m.moveFocus(1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.moveFocus(-1)
			return m, cmd
		case "enter":
			m.submit()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.stage.Resize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// moveFocus cycles the focused input by delta.
func (m *editModel) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

// submit parses every field and rebuilds the stage. A bad field leaves
// the stage untouched.
func (m *editModel) submit() {
	p := m.stage.Params()
	for i, f := range editFields {
		if err := f.set(&p, m.inputs[i].Value()); err != nil {
			m.err = err
			m.inputs[m.focus].Blur()
			m.focus = i
			m.inputs[i].Focus()
			return
		}
	}
	m.err = nil
	m.stage.Rebuild(p.WithColorDefaults())
	m.report = scene.Analyze(m.stage.Snapshot())
	for i, f := range editFields {
		m.inputs[i].SetValue(f.get(m.stage.Params()))
	}
}

func (m editModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Container parameters"))
	b.WriteString("\n\n")
	for i, f := range editFields {
		label := editLabelStyle.Render(f.label)
		if i == m.focus {
			label = editFocusStyle.Render(f.label)
		}
		b.WriteString(label + " " + m.inputs[i].View() + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + editErrorStyle.Render(errors.UserMessage(m.err)) + "\n")
	}

	cam := m.stage.Camera()
	summary := fmt.Sprintf("%d items in %d columns · aspect %.2f · items rev %d",
		len(m.stage.Snapshot().Items), m.report.Columns, cam.Aspect,
		m.stage.Revision(scene.CategoryItems))
	b.WriteString(editSectionStyle.Render(StyleDim.Render(summary)))
	b.WriteString("\n")
	if len(m.report.PerColumn) > 0 {
		b.WriteString(columnTable(m.report))
		b.WriteString("\n")
	}
	for _, w := range m.report.Warnings {
		b.WriteString(StyleWarning.Render(iconWarning+" "+w) + "\n")
	}

	b.WriteString("\n" + editHelpStyle.Render("tab/↓ next  shift+tab/↑ prev  enter rebuild  esc done"))
	return b.String()
}
