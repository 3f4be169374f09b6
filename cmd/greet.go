package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/conneroisu/structcli/pkg/structcli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var greetCmd = &cobra.Command{
	Use:   "greet",
	Short: "Greet someone",
	Long: `Print a greeting. The command's parameters are declared by the
GreetConfig and OutputConfig structs.

Examples:
  structcli greet World                         # Hello, World!
  structcli greet World Howdy -n 3 --delay 1s   # Three greetings, one per second
  structcli greet World -t friendly -o json     # Tagged greeting as JSON`,
}

var (
	greetBinding  *structcli.Binding[GreetConfig]
	outputBinding *structcli.Binding[OutputConfig]
)

func init() {
	rootCmd.AddCommand(greetCmd)

	greetBinding = structcli.MustBind[GreetConfig](greetCmd,
		structcli.WithFieldType("Times", structcli.IntRange{Min: 1, Max: 100}),
		structcli.WithLogger(cliLogger{}),
	)
	outputBinding = structcli.MustBind[OutputConfig](greetCmd,
		structcli.WithName("output"),
		structcli.WithLogger(cliLogger{}),
	)

	if err := structcli.Run(greetCmd, runGreet, greetBinding, outputBinding); err != nil {
		panic(err)
	}
}

type greeting struct {
	Message string   `json:"message" yaml:"message"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
}

func runGreet(cmd *cobra.Command, inv *structcli.Invocation) error {
	cfg := greetBinding.From(inv)
	out, err := structcli.Get[OutputConfig](inv, "output")
	if err != nil {
		return err
	}

	logger.Debug(cmd.Context(), "greeting",
		"name", cfg.Name,
		"times", cfg.Times,
		"format", out.Format)

	if out.Quiet {
		return nil
	}

	greetings := buildGreetings(cfg)
	w := cmd.OutOrStdout()

	switch out.Format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(greetings)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(greetings); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return printGreetings(cmd, w, greetings, cfg.Delay)
	}
}

func buildGreetings(cfg GreetConfig) []greeting {
	word := "Hello"
	if cfg.Greeting != nil {
		word = *cfg.Greeting
	}

	message := fmt.Sprintf("%s, %s!", word, cfg.Name)
	if cfg.Shout {
		message = strings.ToUpper(message)
	}

	id := ""
	if cfg.ID != nil {
		id = cfg.ID.String()
	}

	greetings := make([]greeting, cfg.Times)
	for i := range greetings {
		greetings[i] = greeting{Message: message, Tags: cfg.Tags, ID: id}
	}
	return greetings
}

func printGreetings(cmd *cobra.Command, w io.Writer, greetings []greeting, delay time.Duration) error {
	ctx := cmd.Context()
	for i, g := range greetings {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		line := g.Message
		if len(g.Tags) > 0 {
			line += " [" + strings.Join(g.Tags, ", ") + "]"
		}
		if g.ID != "" {
			line += " (id " + g.ID + ")"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
