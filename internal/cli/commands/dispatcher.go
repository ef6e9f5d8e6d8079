package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"ConnKeeper/internal/cli/auth"
	"ConnKeeper/internal/config"
	"ConnKeeper/internal/connfile"
	"ConnKeeper/internal/schema"
)

// Коды завершения ckcli.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Dispatch runs the command named by args[0] and returns the process exit
// code. Decode failures are reported with a hint on how to fix the input.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	for _, a := range os.Args[1:] {
		if a == "--help" || a == "-h" {
			fmt.Fprint(Out, FormatGlobalUsage())
			return ExitOK
		}
	}
	if !flag.Parsed() {
		flag.Parse()
	}
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	if name == "help" {
		return help(args[1:])
	}
	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return ExitUsage
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(Out, "%s interrupted\n", name)
		return ExitError
	}
	fmt.Fprintf(Out, "%s error: %v\n", name, err)
	if h := hint(err); h != "" {
		fmt.Fprintf(Out, "hint: %s\n", h)
	}
	return ExitError
}

// help печатает общую справку или usage одной команды: ckcli help [command].
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	c, ok := Get(args[0])
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[0])
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}
	fmt.Fprintf(Out, "Usage: %s\n  %s\n", c.Usage(), c.Description())
	return ExitOK
}

func hint(err error) string {
	var de *connfile.DecodeError
	switch {
	case errors.Is(err, auth.ErrNoTerminal):
		return "no terminal to ask for the passphrase; set CONNECTIONS_PASSPHRASE"
	case errors.Is(err, connfile.ErrAuthenticationFailed):
		return "the document is protected; check CONNECTIONS_PASSPHRASE"
	case errors.Is(err, connfile.ErrUnsupportedVersion):
		return fmt.Sprintf("documents up to schema %s are supported", schema.MaxSupported)
	case errors.As(err, &de) && de.Node != "":
		return fmt.Sprintf("see node %q of the document", de.Node)
	}
	return ""
}
