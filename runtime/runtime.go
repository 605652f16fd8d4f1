// Package runtime assembles an evaluator with the built-in procedures, the
// anaphoric operators and the Scheme prelude, and runs source text with it.
package runtime

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"

	"github.com/sergev/anaphora/anaphora"
	"github.com/sergev/anaphora/lang"
	"github.com/sergev/anaphora/sexpr"
)

var log = logging.MustGetLogger("runtime")

func init() {
	logging.SetLevel(logging.WARNING, "runtime")
}

// NewEvaluator constructs an evaluator with the standard runtime installed.
func NewEvaluator() *lang.Evaluator {
	ev := lang.NewEvaluator()
	installPrimitives(ev.Global)
	anaphora.Install(ev.Global)
	if err := installLibrary(ev); err != nil {
		panic(fmt.Errorf("runtime bootstrap failed: %w", err))
	}
	return ev
}

// SetArgv stores the command-line arguments as a list in *argv*.
func SetArgv(env *lang.Env, args []string) {
	values := make([]lang.Value, len(args))
	for i, arg := range args {
		values[i] = lang.StringValue(arg)
	}
	env.Define("*argv*", lang.List(values...))
}

func installLibrary(ev *lang.Evaluator) error {
	for _, src := range preludeForms {
		if _, err := EvaluateString(ev, src); err != nil {
			return err
		}
	}
	log.Debugf("prelude loaded: %d forms", len(preludeForms))
	return nil
}

func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte("#!")) {
		return data, nil
	}
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		return data[idx+1:], nil
	}
	return []byte{}, nil
}

// EvaluateReader reads every form from r and evaluates them in order,
// returning the value of the last one.
func EvaluateReader(ev *lang.Evaluator, r io.Reader) (lang.Value, error) {
	forms, err := sexpr.ReadAll(r)
	if err != nil {
		return lang.Value{}, err
	}
	return ev.EvalAll(forms, nil)
}

// EvaluateString is EvaluateReader over src.
func EvaluateString(ev *lang.Evaluator, src string) (lang.Value, error) {
	return EvaluateReader(ev, strings.NewReader(src))
}

// EvaluateFile loads and executes a source file, allowing a #! first line.
func EvaluateFile(ev *lang.Evaluator, path string) (lang.Value, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return lang.Value{}, err
	}
	log.Debugf("evaluating %s", path)
	val, err := EvaluateReader(ev, bytes.NewReader(data))
	if err != nil {
		return lang.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return val, nil
}
