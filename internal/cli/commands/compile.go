package commands

import (
	"github.com/spf13/cobra"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile translation documents into locale files",
		Long: `Fold each locale's existing translation documents into
<locales_dir>/<locale>.json and <locale>.urls.json without reconciling
them first. Keys without a translation fall back to the original text.`,
		Example: `  polyglot compile
  polyglot compile --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompile(cmd)
		},
	}
}

func runCompile(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	runner, err := newRunner(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}

	report := runner.Compile(newRunContext())
	recordRun(cc, report, "compile")
	if err := cc.Renderer.RenderRun(report, "compile"); err != nil {
		return err
	}
	return reportError(report)
}
