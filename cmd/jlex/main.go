// jlex: command-line front end of the incremental Java lexer.
//
// Commands:
//
//	tokens   print the tokens of files
//	check    report lexical problems; exits 1 when errors are found
//	state    print the scanner state at an offset of a file
//	watch    re-lex files incrementally as they change
//	version  print version information
//
// Common flags:
//
//	-config  configuration file (default .jlex.json)
//	-lang    language level, such as 1.8 or 17
//	-j       number of files lexed in parallel
//	-v       verbose logging
//	-debug   debug logging
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/orizon-lang/jlex/internal/cli"
)

const toolName = "jlex"

// errFindings reports that a command completed but found problems.
var errFindings = errors.New("lexical errors found")

var commands = []cli.CommandInfo{
	{
		Name:        "tokens",
		Usage:       "jlex tokens [-json] [-trivia=false] FILE...",
		Description: "print the tokens of files",
		Examples:    []string{"jlex tokens src/Main.java", "cat Main.java | jlex tokens -json -"},
	},
	{
		Name:        "check",
		Usage:       "jlex check [-detailed] FILE...",
		Description: "report lexical problems",
		Examples:    []string{"jlex check -lang 17 src/*.java"},
	},
	{
		Name:        "state",
		Usage:       "jlex state -at OFFSET [-json] FILE",
		Description: "print the scanner state at an offset",
		Examples:    []string{"jlex state -at 120 Main.java"},
	},
	{
		Name:        "watch",
		Usage:       "jlex watch DIR|FILE...",
		Description: "re-lex files as they change",
		Examples:    []string{"jlex watch -v src/"},
	},
	{
		Name:        "version",
		Usage:       "jlex version [-json]",
		Description: "print version information",
	},
}

// env is what a command runs with.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := run(ctx, e, os.Args[1:]); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		cli.ExitWithError("%v", err)
	}
}

func run(ctx context.Context, e env, args []string) error {
	if len(args) == 0 {
		cli.PrintUsage(e.stderr, toolName, commands)
		return fmt.Errorf("no command given")
	}

	name, rest := args[0], args[1:]
	switch name {
	case "tokens":
		return runTokens(ctx, e, rest)
	case "check":
		return runCheck(ctx, e, rest)
	case "state":
		return runState(e, rest)
	case "watch":
		return runWatch(ctx, e, rest)
	case "version", "-version", "--version":
		return runVersion(e, rest)
	case "help", "-h", "-help", "--help":
		cli.PrintUsage(e.stdout, toolName, commands)
		return nil
	}
	cli.PrintUsage(e.stderr, toolName, commands)
	return fmt.Errorf("unknown command %q", name)
}

func commandInfo(name string) cli.CommandInfo {
	for _, c := range commands {
		if c.Name == name {
			return c
		}
	}
	return cli.CommandInfo{Name: name}
}
