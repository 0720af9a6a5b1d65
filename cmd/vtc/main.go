// Command vtc is the thin CLI front-end over the Query API: get, load,
// dump, dump-selective, list-namespaces, list-variables, and an
// interactive repl mode. It adds no engine semantics of its own — every
// subcommand is a direct call into package vtc.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/mattn/go-runewidth"

	"github.com/dpyte/vtc"
	"github.com/dpyte/vtc/grammar"
	"github.com/dpyte/vtc/serializer"
	"github.com/dpyte/vtc/toolconfig"
	"github.com/dpyte/vtc/vtcerr"
)

// Exit codes distinguish how a run failed, so scripts can branch without
// scraping stderr.
const (
	exitOK         = 0
	exitRuntimeErr = 1
	exitParseErr   = 2
	exitIOErr      = 3
)

var logpath = flag.String("log", "", "log to file")

func main() {
	flag.Usage = printUsage
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds | log.Llongfile)
	if *logpath != "" {
		logFile, err := os.Create(*logpath)
		if err != nil {
			exitWithError(exitIOErr, err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(ioutil.Discard)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(exitRuntimeErr)
	}

	cfg, err := toolconfig.LoadOrCreateConfig()
	if err != nil {
		exitWithError(exitIOErr, err)
	}

	env := vtc.New()
	for _, prelude := range cfg.PreludeFiles {
		if err := env.LoadFile(prelude); err != nil {
			exitWithError(classifyExit(err), err)
		}
	}

	sub, rest := args[0], args[1:]
	if err := dispatch(env, cfg, sub, rest); err != nil {
		exitWithError(classifyExit(err), err)
	}
}

func dispatch(env *vtc.Env, cfg toolconfig.Config, sub string, args []string) error {
	switch sub {
	case "load":
		return cmdLoad(env, args)
	case "get":
		return cmdGet(env, args)
	case "dump":
		return cmdDump(env, cfg, args)
	case "dump-selective":
		return cmdDumpSelective(env, cfg, args)
	case "list-namespaces":
		return cmdListNamespaces(env, args)
	case "list-variables":
		return cmdListVariables(env, args)
	case "repl":
		return cmdRepl(env, cfg, args)
	default:
		flag.Usage()
		return vtcerr.New(vtcerr.InvalidIntrinsicArgs, "unknown subcommand "+sub)
	}
}

func cmdLoad(env *vtc.Env, args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	fs.Parse(args)
	for _, path := range fs.Args() {
		if err := env.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

func cmdGet(env *vtc.Env, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	accessorFlag := fs.String("accessors", "", `accessor path, e.g. "->(0)->(1..3)"`)
	fileFlag := fs.String("file", "", "VTC source file to load before resolving")
	fs.Parse(args)

	if *fileFlag != "" {
		if err := env.LoadFile(*fileFlag); err != nil {
			return err
		}
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return vtcerr.New(vtcerr.InvalidIntrinsicArgs, "get requires exactly one namespace.variable argument")
	}
	ns, varName, err := splitNsVar(rest[0])
	if err != nil {
		return err
	}

	accessors, err := grammar.ParseAccessorPath(*accessorFlag)
	if err != nil {
		return err
	}

	v, err := env.Get(ns, varName, accessors)
	if err != nil {
		return err
	}
	fmt.Println(serializer.RenderValue(v, serializer.DefaultFormat))
	return nil
}

func cmdDump(env *vtc.Env, cfg toolconfig.Config, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		return vtcerr.New(vtcerr.InvalidIntrinsicArgs, "dump requires exactly one output path")
	}
	return env.Dump(rest[0], formatFromConfig(cfg))
}

func cmdDumpSelective(env *vtc.Env, cfg toolconfig.Config, args []string) error {
	fs := flag.NewFlagSet("dump-selective", flag.ExitOnError)
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) < 2 {
		return vtcerr.New(vtcerr.InvalidIntrinsicArgs, "dump-selective requires an output path and at least one root namespace")
	}
	return env.DumpSelective(rest[0], rest[1:], formatFromConfig(cfg))
}

func cmdListNamespaces(env *vtc.Env, args []string) error {
	fs := flag.NewFlagSet("list-namespaces", flag.ExitOnError)
	fs.Parse(args)
	printAligned(env.ListNamespaces())
	return nil
}

func cmdListVariables(env *vtc.Env, args []string) error {
	fs := flag.NewFlagSet("list-variables", flag.ExitOnError)
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		return vtcerr.New(vtcerr.InvalidIntrinsicArgs, "list-variables requires exactly one namespace argument")
	}
	names, err := env.ListVariables(rest[0])
	if err != nil {
		return err
	}
	printAligned(names)
	return nil
}

// cmdRepl reads command lines from stdin, tokenizing each with shlex, and
// dispatches them as if they were argv for one of the non-interactive
// subcommands.
func cmdRepl(env *vtc.Env, cfg toolconfig.Config, args []string) error {
	fmt.Println("vtc repl — type a subcommand (get, load, dump, dump-selective, list-namespaces, list-variables) or 'exit'")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if err := dispatch(env, cfg, tokens[0], tokens[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func splitNsVar(s string) (ns, varName string, err error) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return "", "", vtcerr.New(vtcerr.InvalidIntrinsicArgs, `expected "namespace.variable", got `+s)
	}
	return s[:dot], s[dot+1:], nil
}

func formatFromConfig(cfg toolconfig.Config) serializer.Format {
	f := serializer.Format{SortNamespaces: cfg.SortNamespaces()}
	if cfg.FloatPrecision > 0 {
		precision := cfg.FloatPrecision
		f.FloatFormat = func(v float64) string {
			return fmt.Sprintf("%.*g", precision, v)
		}
	}
	return f
}

// printAligned prints names as a single column padded to the display
// width of the longest entry, using go-runewidth instead of len(string)
// so multi-byte identifiers still line up visually.
func printAligned(names []string) {
	width := 0
	for _, n := range names {
		if w := runewidth.StringWidth(n); w > width {
			width = w
		}
	}
	for _, n := range names {
		fmt.Println(runewidth.FillRight(n, width))
	}
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [OPTIONS] <subcommand> [args]\n", os.Args[0])
	fmt.Fprintln(f, "Subcommands: load, get, dump, dump-selective, list-namespaces, list-variables, repl")
	flag.PrintDefaults()
}

func exitWithError(code int, err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(code)
}

func classifyExit(err error) int {
	switch vtcerr.KindOf(err) {
	case vtcerr.ParseError:
		return exitParseErr
	case vtcerr.FileReadError, vtcerr.FileWriteError:
		return exitIOErr
	default:
		return exitRuntimeErr
	}
}
