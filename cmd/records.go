package cmd

import (
	"fmt"
	"io"
	"sort"
	"time"

	clierrors "github.com/conneroisu/structcli/internal/errors"
	"github.com/conneroisu/structcli/internal/logging"
	"github.com/conneroisu/structcli/pkg/structcli"
	"github.com/google/uuid"
)

// LoggingConfig is shared by every command through persistent flags.
type LoggingConfig struct {
	Debug   bool            `flag:"debug" desc:"Enable debug logging (same as --log-level debug)"`
	Level   string          `flag:"log-level" desc:"Minimum log level" choices:"debug|info|warn|error" default:"info"`
	LogFile *structcli.Path `flag:"log-file" type:"file" desc:"Append logs to this file instead of stderr"`
	Format  string          `flag:"log-format" desc:"Log format" choices:"text|json" default:"text"`
}

// Logger builds the logger described by c. The returned closer is nil
// unless logs go to a file.
func (c LoggingConfig) Logger(stderr io.Writer) (logging.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}
	if c.Debug {
		level = logging.LevelDebug
	}

	config := &logging.LoggerConfig{
		Level:  level,
		Format: c.Format,
		Output: stderr,
	}

	if c.LogFile == nil {
		return logging.NewLogger(config), nil, nil
	}

	fileLogger, err := logging.NewFileLogger(config, c.LogFile.String())
	if err != nil {
		return nil, nil, err
	}
	return fileLogger, fileLogger, nil
}

// OutputConfig selects how results are printed.
type OutputConfig struct {
	Format string `flag:"output,o" desc:"Output format" choices:"text|json|yaml" default:"text"`
	Quiet  bool   `flag:"quiet,q" desc:"Suppress output"`
}

// GreetConfig declares the greet command.
type GreetConfig struct {
	Name     string        `arg:"" desc:"Who to greet"`
	Greeting *string       `arg:"" desc:"Greeting to use"`
	Times    int           `flag:"times,n" desc:"How many times to greet" default:"1"`
	Shout    bool          `flag:"shout,s" desc:"Print the greeting in upper case"`
	Delay    time.Duration `flag:"delay" desc:"Pause between greetings" default:"0s"`
	Tags     []string      `flag:"tag,t" desc:"Tags appended to the greeting"`
	ID       *uuid.UUID    `flag:"id" desc:"Request identifier to echo back"`
}

// InspectConfig declares the inspect command.
type InspectConfig struct {
	Records []string `arg:"record" desc:"Records to describe (default: all)"`
	Format  string   `flag:"format,f" desc:"Output format" choices:"table|json|yaml" default:"table"`
}

// VersionConfig declares the version command.
type VersionConfig struct {
	Format string `flag:"format,f" desc:"Output format" choices:"text|json|yaml" default:"text"`
	Short  bool   `flag:"short" desc:"Show the short version only"`
}

type describer func(opts ...structcli.Option) ([]structcli.ParamInfo, error)

// records lists the structs the inspect command can describe.
var records = map[string]describer{
	"logging": structcli.Describe[LoggingConfig],
	"output":  structcli.Describe[OutputConfig],
	"greet":   structcli.Describe[GreetConfig],
	"inspect": structcli.Describe[InspectConfig],
	"version": structcli.Describe[VersionConfig],
}

func recordNames() []string {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func describeRecord(name string) ([]structcli.ParamInfo, error) {
	describe, ok := records[name]
	if !ok {
		return nil, clierrors.NewUsageError(clierrors.ErrCodeArgs,
			fmt.Sprintf("unknown record %q", name)).
			WithSuggestions(clierrors.Suggest(name, recordNames())...)
	}
	return describe()
}
