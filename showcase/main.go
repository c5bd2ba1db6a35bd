// The showcase demonstrates the inview visibility scheduler end to end:
// a scrollable feed of lazy-loading rows, tracked through one shared
// sensor, rendered in the terminal.
//
// Two commands are available:
//
//	showcase tui      # interactive feed (Bubble Tea)
//	showcase replay   # scripted scroll session, transitions on stdout
//
// Both read an optional showcase.yaml next to the working directory.
package main

import (
	"fmt"
	"os"
	"strings"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

var rootCmd = &Command{
	Name:  "showcase",
	Short: "inview showcase - lazy visibility tracking in the terminal",
	Long: `The inview showcase runs a feed of lazy-loading rows against the
visibility scheduler: rows load when they scroll into the margin-expanded
window, one-shot rows retire after loading, and a handful of bootstrap
grants pre-load the rows above the fold.

Use "showcase <command> --help" for more information about a command.`,
	Usage: "showcase <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)
var commandOrder []*Command

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	commandOrder = append(commandOrder, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute() error {
	args := os.Args[1:]

	if len(args) == 0 {
		printHelp()
		return nil
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp()
		return nil
	case "-v", "--version", "version":
		fmt.Printf("inview showcase %s (built %s)\n", Version, BuildTime)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printHelp()
		return fmt.Errorf("unknown command: %s", args[0])
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

func printHelp() {
	fmt.Println(rootCmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", rootCmd.Usage)
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range commandOrder {
		fmt.Printf("  %-10s %s\n", cmd.Name, cmd.Short)
	}
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -h, --help       Show help for a command")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  showcase tui                      Interactive feed")
	fmt.Println("  showcase replay                   Scripted scroll session")
	fmt.Println("  showcase replay --config demo.yaml")
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
}

// configPath extracts a --config flag from args, returning the path and
// the remaining arguments.
func configPath(args []string) (string, []string, error) {
	path := ""
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--config requires a file path")
			}
			path = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			path = strings.TrimPrefix(arg, "--config=")
		default:
			rest = append(rest, arg)
		}
	}
	return path, rest, nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
