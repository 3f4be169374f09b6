// Package cmd provides the command-line interface for structcli.
//
// Every command declares its parameters as a struct and binds it with the
// structcli package, so the binary doubles as a working example of the
// library.
//
// # Available Commands
//
//   - greet: Print a greeting (GreetConfig plus a named OutputConfig)
//   - inspect: Describe how the demo structs map onto parameters
//   - version: Show build information
//
// # Command Examples
//
//	// Greet with an optional positional greeting and repeated tags
//	structcli greet World Howdy -t friendly -t short
//
//	// Describe the greet command's parameters as YAML
//	structcli inspect greet -f yaml
//
//	// Debug logging from the environment
//	STRUCTCLI_DEBUG=true structcli greet World
//
// # Configuration Integration
//
// The persistent logging options (LoggingConfig) are bound into viper, so
// they respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (STRUCTCLI_*)
//  3. Configuration file (.structcli.yml)
//  4. Declared defaults (lowest priority)
package cmd
