package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/conneroisu/structcli/internal/version"
	"github.com/conneroisu/structcli/pkg/structcli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for structcli including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  structcli version              # Show version
  structcli version --short      # Show short version
  structcli version -f json      # Output as JSON`,
}

var versionBinding *structcli.Binding[VersionConfig]

func init() {
	rootCmd.AddCommand(versionCmd)

	var err error
	versionBinding, err = structcli.Command(versionCmd, runVersionCommand)
	if err != nil {
		panic(err)
	}
}

func runVersionCommand(cmd *cobra.Command, cfg VersionConfig, _ []string) error {
	info := version.Get()
	w := cmd.OutOrStdout()

	switch cfg.Format {
	case "json":
		return outputVersionJSON(w, info)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(info); err != nil {
			return err
		}
		return encoder.Close()
	default:
		if cfg.Short {
			fmt.Fprintln(w, info.Short())
			return nil
		}
		fmt.Fprintln(w, info.String())
		return nil
	}
}

func outputVersionJSON(w io.Writer, info version.Info) error {
	jsonInfo := map[string]interface{}{
		"version":    info.Version,
		"git_commit": info.GitCommit,
		"go_version": info.GoVersion,
		"platform":   info.Platform,
		"is_release": info.IsRelease(),
		"is_dirty":   info.Dirty,
	}
	if !info.BuildTime.IsZero() {
		jsonInfo["build_time"] = info.BuildTime
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonInfo)
}
