package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/scene"
	"github.com/matzehuels/stowage/pkg/store"
)

// presetCommand creates the preset management command.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage named parameter presets",
		Long: `Manage named parameter presets.

Presets live in the store selected by the [store] config section: JSON
files under ~/.config/stowage/presets by default, or MongoDB. Commands
that take a preset accept its id or its name.`,
	}

	cmd.AddCommand(c.presetSaveCommand())
	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetShowCommand())
	cmd.AddCommand(c.presetDeleteCommand())

	return cmd
}

// withStore loads the config, opens the store and runs fn against it.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open preset store: %w", err)
	}
	defer s.Close()
	return fn(s)
}

// presetSaveCommand creates the "preset save" subcommand.
func (c *CLI) presetSaveCommand() *cobra.Command {
	var sf sceneFlags

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save parameters as a preset",
		Long: `Save parameters as a preset.

Parameters start from the config file and are overridden by flags. Saving
under an existing name replaces that preset and keeps its id.`,
		Example: `  stowage preset save reefer --length 12.19 --container-height 2.9 -n 24`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p := sf.apply(cmd.Flags(), cfg.Scene)
			return c.withStore(cmd.Context(), func(s store.Store) error {
				return savePresetParams(cmd.Context(), s, args[0], p)
			})
		},
	}

	sf.register(cmd.Flags())
	return cmd
}

// presetListCommand creates the "preset list" subcommand.
func (c *CLI) presetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s store.Store) error {
				presets, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(presets) == 0 {
					printInfo("No presets saved")
					printNextStep("Create one", appName+" preset save <name>")
					return nil
				}
				fmt.Println(presetTable(presets))
				return nil
			})
		},
	}
}

// presetShowCommand creates the "preset show" subcommand.
func (c *CLI) presetShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a preset's parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s store.Store) error {
				p, err := store.Lookup(cmd.Context(), s, args[0])
				if err != nil {
					return presetError(args[0], err)
				}
				printKeyValue("name", p.Name)
				printKeyValue("id", p.ID)
				printKeyValue("updated", p.UpdatedAt.Local().Format(time.DateTime))
				printNewline()
				return printSceneTOML(p.Params)
			})
		},
	}
}

// presetDeleteCommand creates the "preset delete" subcommand.
func (c *CLI) presetDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s store.Store) error {
				p, err := store.Lookup(cmd.Context(), s, args[0])
				if err != nil {
					return presetError(args[0], err)
				}
				if err := s.Delete(cmd.Context(), p.ID); err != nil {
					return presetError(args[0], err)
				}
				printSuccess("Deleted preset %s", StyleValue.Render(p.Name))
				return nil
			})
		},
	}
}

// savePresetParams saves p under name, replacing an existing preset of the
// same name.
func savePresetParams(ctx context.Context, s store.Store, name string, p scene.Params) error {
	preset := &store.Preset{Name: name, Params: p}
	replaced, err := store.SaveNamed(ctx, s, preset)
	if err != nil {
		return err
	}
	verb := "Saved"
	if replaced {
		verb = "Replaced"
	}
	printSuccess("%s preset %s", verb, StyleValue.Render(preset.Name))
	printDetail("id: %s", preset.ID)
	return nil
}

// presetError turns store.ErrNotFound into a coded error naming ref.
func presetError(ref string, err error) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.Wrap(errors.ErrCodePresetNotFound, err, "no preset with id or name %q", ref)
	}
	return err
}

// presetTable renders presets as a lipgloss table.
func presetTable(presets []store.Preset) string {
	rows := make([][]string, len(presets))
	for i, p := range presets {
		rows[i] = []string{
			p.Name,
			fmt.Sprintf("%g × %g × %g", p.Params.Length, p.Params.Width, p.Params.Height),
			strconv.Itoa(p.Params.NumItems),
			p.UpdatedAt.Local().Format(time.DateOnly),
			p.ID,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Container (m)", "Items", "Updated", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorGreen)
			case col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		}).
		Render()
}
