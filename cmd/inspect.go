package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/structcli/pkg/structcli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect",
	Aliases: []string{"i"},
	Short:   "Show how the demo structs map onto parameters",
	Long: `Describe the parameters structcli derives from the structs behind this
binary's commands: names, inferred types, requiredness and defaults.

Examples:
  structcli inspect                 # Every record as a table
  structcli inspect greet output    # Selected records
  structcli inspect greet -f yaml   # As YAML`,
}

var inspectBinding *structcli.Binding[InspectConfig]

func init() {
	rootCmd.AddCommand(inspectCmd)

	var err error
	inspectBinding, err = structcli.Command(inspectCmd, runInspect, structcli.WithLogger(cliLogger{}))
	if err != nil {
		panic(err)
	}
}

type recordInfo struct {
	Record string                `json:"record" yaml:"record"`
	Params []structcli.ParamInfo `json:"params" yaml:"params"`
}

func runInspect(cmd *cobra.Command, cfg InspectConfig, _ []string) error {
	names := cfg.Records
	if len(names) == 0 {
		names = recordNames()
	}

	described := make([]recordInfo, 0, len(names))
	for _, name := range names {
		params, err := describeRecord(name)
		if err != nil {
			return err
		}
		described = append(described, recordInfo{Record: name, Params: params})
	}

	w := cmd.OutOrStdout()
	switch cfg.Format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(described)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(described); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return outputInspectTable(w, described)
	}
}

func outputInspectTable(out io.Writer, described []recordInfo) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "RECORD\tPARAMETER\tKIND\tTYPE\tREQUIRED\tDEFAULT\tHELP")
	fmt.Fprintln(w, "------\t---------\t----\t----\t--------\t-------\t----")

	for _, rec := range described {
		for _, p := range rec.Params {
			name := p.Name
			if p.Short != "" {
				name = "-" + p.Short + ", " + name
			}
			typ := p.Type
			if p.Multiple {
				typ += "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				rec.Record, name, p.Kind, typ, strconv.FormatBool(p.Required), p.Default, strings.TrimSpace(p.Help))
		}
	}

	return w.Flush()
}
