// Package structcli maps struct fields onto cobra options and positional
// arguments, and turns the parsed values back into populated structs.
//
// A struct declares its parameters with tags:
//
//	type Config struct {
//		Name     string         `arg:""`
//		Greeting string         `flag:"greeting,g" default:"Hello" desc:"Greeting to use"`
//		Count    int            `flag:"" default:"1"`
//		Timeout  *time.Duration `flag:"" desc:"Optional timeout"`
//		Debug    bool           `flag:"debug" desc:"Enable debug logging"`
//	}
//
// and is attached to a command with Command, or with Bind plus Run when
// several structs share one command:
//
//	cmd := &cobra.Command{Use: "greet"}
//	_, err := structcli.Command(cmd, func(cmd *cobra.Command, cfg Config, args []string) error {
//		fmt.Printf("%s, %s\n", cfg.Greeting, cfg.Name)
//		return nil
//	})
//
// # Tags
//
//   - flag:"long,s" declares an option. An empty long name is derived from
//     the field name in kebab case (HTTPPort becomes --http-port).
//   - arg:"name" declares a positional argument.
//   - desc, default, required, type, choices, nargs, env and hidden refine
//     the declaration. default:"-" (DontPass) marks a parameter as having a
//     default while leaving the field at its prototype value.
//   - prefix:"db" on a nested struct field prefixes every option inside it.
//
// Embedded structs are flattened in place.
//
// # Type inference
//
// Fields without an explicit type are resolved through a process-wide table
// mapping Go types to ParamType values. RegisterTypeInference and
// RegisterType extend it; WithTypeInferences overrides it for one binding.
// Pointer fields are optional, slice fields are repeatable.
//
// # Requiredness
//
// An explicit required tag wins. Otherwise a declared default makes a
// parameter optional, and without one it is required unless its type is
// optional. Boolean options are switches and never required implicitly.
//
// Parsing, help output and usage errors stay with cobra and pflag.
package structcli
