package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/codegangsta/cli"
	"github.com/op/go-logging"
	"github.com/peterh/liner"

	"github.com/sergev/anaphora/anaphora"
	"github.com/sergev/anaphora/internal/logconf"
	"github.com/sergev/anaphora/lang"
	"github.com/sergev/anaphora/runtime"
	"github.com/sergev/anaphora/sexpr"
)

var log = logging.MustGetLogger("main")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "anaphora: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "anaphora"
	app.Usage = "Scheme interpreter with anaphoric macros"
	app.ArgsUsage = "[script [args...]]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "trace",
			Usage:  "log every macro expansion to stderr",
			EnvVar: "ANAPHORA_TRACE",
		},
		cli.StringFlag{
			Name:  "eval, e",
			Usage: "evaluate `EXPR` and print its value",
		},
		cli.StringFlag{
			Name:   "history",
			Value:  defaultHistoryPath(),
			Usage:  "REPL history `FILE`",
			EnvVar: "ANAPHORA_HISTORY",
		},
	}
	app.Before = func(c *cli.Context) error {
		logconf.Setup(os.Stderr, c.GlobalBool("trace"))
		return nil
	}
	app.Action = runMain
	app.Commands = []cli.Command{
		{
			Name:      "expand",
			Usage:     "print the expansion of every form without evaluating it",
			ArgsUsage: "[file]",
			Action:    runExpand,
		},
		{
			Name:   "operators",
			Usage:  "list the anaphoric operators",
			Action: runOperators,
		},
	}
	return app
}

func runMain(c *cli.Context) error {
	ev := runtime.NewEvaluator()
	args := []string(c.Args())
	runtime.SetArgv(ev.Global, args)

	if expr := c.String("eval"); expr != "" {
		val, err := runtime.EvaluateString(ev, expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, val.String())
		return nil
	}

	if len(args) == 0 {
		runREPL(ev, c.String("history"), c.App.Writer)
		return nil
	}

	script := args[0]
	log.Debugf("running %s with %d arguments", script, len(args)-1)
	var err error
	if script == "-" {
		_, err = runtime.EvaluateReader(ev, os.Stdin)
	} else {
		_, err = runtime.EvaluateFile(ev, script)
	}
	return err
}

// runExpand prints the full expansion of each form read from a file, or from
// stdin when no file (or -) is given.
func runExpand(c *cli.Context) error {
	var in io.Reader = os.Stdin
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	forms, err := sexpr.ReadAll(in)
	if err != nil {
		return err
	}
	for _, form := range forms {
		expanded, err := anaphora.ExpandAll(form)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, expanded.String())
	}
	return nil
}

func runOperators(c *cli.Context) error {
	for _, name := range anaphora.Names() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

// repl accumulates input lines until they form complete expressions, then
// evaluates them and prints each value.
type repl struct {
	ev      *lang.Evaluator
	out     io.Writer
	errOut  io.Writer
	pending strings.Builder
}

// feed adds text to the pending input. It returns false while the input ends
// inside an unfinished form, unless final is set.
func (r *repl) feed(text string, final bool) bool {
	r.pending.WriteString(text)
	forms, err := sexpr.ReadString(r.pending.String())
	if err != nil {
		if sexpr.IsIncomplete(err) && !final {
			return false
		}
		fmt.Fprintf(r.errOut, "read error: %v\n", err)
		r.pending.Reset()
		return true
	}
	r.pending.Reset()
	for _, form := range forms {
		val, err := r.ev.Eval(form, nil)
		if err != nil {
			fmt.Fprintf(r.errOut, "error: %v\n", err)
			break
		}
		fmt.Fprintln(r.out, val.String())
	}
	return true
}

func runREPL(ev *lang.Evaluator, historyPath string, out io.Writer) {
	r := &repl{ev: ev, out: out, errOut: os.Stderr}
	if !isInteractive() {
		runBufferedREPL(r, bufio.NewReader(os.Stdin))
		return
	}
	runInteractiveREPL(r, historyPath)
}

func runBufferedREPL(r *repl, reader *bufio.Reader) {
	for {
		line, err := reader.ReadString('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			fmt.Fprintf(r.errOut, "read error: %v\n", err)
			return
		}
		if line != "" || (eof && r.pending.Len() > 0) {
			r.feed(line, eof)
		}
		if eof {
			return
		}
	}
}

func runInteractiveREPL(r *repl, historyPath string) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(historyPath)
			if err != nil {
				log.Warningf("cannot save history: %v", err)
				return
			}
			state.WriteHistory(f)
			f.Close()
		}()
	}

	var entry strings.Builder
	for {
		prompt := "anaphora> "
		if entry.Len() > 0 {
			prompt = "....... "
		}
		input, err := state.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(r.out)
			entry.Reset()
			r.pending.Reset()
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return
		case err != nil:
			fmt.Fprintf(r.errOut, "read error: %v\n", err)
			return
		}
		entry.WriteString(input)
		entry.WriteString("\n")
		if !r.feed(input+"\n", false) {
			continue
		}
		if trimmed := strings.TrimSpace(entry.String()); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		entry.Reset()
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".anaphora_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
