package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/polyglot/internal/cli/config"
	"github.com/leapstack-labs/polyglot/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a polyglot.yaml in a project",
		Long: `Write a default polyglot.yaml configuration and a .gitignore entry for
the run ledger. An existing polyglot.yaml is only replaced with --force.`,
		Example: `  # Initialize in current directory
  polyglot init

  # Initialize in another directory
  polyglot init site

  # Force overwrite existing config
  polyglot init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(outputFlag(cmd)))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	for _, name := range config.ConfigFileNames {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil && !force {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	written, err := copyTemplate("default", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"directory": dir, "files": written})
	}

	for _, f := range written {
		r.Success("created " + f)
	}
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add your locales to polyglot.yaml")
	r.Println("  2. Build your site and extract keys to rosey/base.json")
	r.Println("  3. Run 'polyglot generate'")

	return nil
}
