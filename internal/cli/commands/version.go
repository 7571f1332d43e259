package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/polyglot/internal/cli/output"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// NewBuildInfo fills in the runtime fields of a BuildInfo.
func NewBuildInfo(version, commit, buildDate string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the polyglot version with the commit and date it was built from,
and the Go toolchain and platform of the binary. Use --output json for a
machine-readable form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(outputFlag(cmd)))
			return renderVersion(r, info)
		},
	}
}

func renderVersion(r *output.Renderer, info BuildInfo) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "polyglot v"+info.Version))
		r.Println(output.FormatKeyValue("Commit", output.FormatCode(info.Commit)))
		r.Println(output.FormatKeyValue("Built", info.BuildDate))
		r.Println(output.FormatKeyValue("Go", info.GoVersion))
		r.Println(output.FormatKeyValue("Platform", info.Platform))
	default:
		r.Println("polyglot v" + info.Version)
		r.Println(r.Muted("commit " + info.Commit + ", built " + info.BuildDate))
		r.Println(r.Muted(info.GoVersion + " " + info.Platform))
	}
	return nil
}
