package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/internal/ingest"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Fill empty translations from received translation files",
		Long: `Read <incoming_dir>/<locale>.json for every configured locale and
write each received value into the matching key of that locale's
documents, but only where the key is still empty. Values for markdown
inputs are converted from HTML to markdown. Existing translations are
never changed.`,
		Example: `  polyglot import
  polyglot import --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd)
		},
	}
}

func runImport(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	project := cc.Cfg.Project()
	store := document.NewStore(cc.Cfg.Paths.TranslationsDir)
	summaries := ingest.NewImporter(&project, store, cc.Logger).Import()

	if err := cc.Renderer.RenderImport(summaries); err != nil {
		return err
	}

	failed := 0
	for _, s := range summaries {
		if s.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("import failed for %d of %d locale(s)", failed, len(summaries))
	}
	return nil
}
