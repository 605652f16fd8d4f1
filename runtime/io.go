package runtime

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sergev/anaphora/lang"
	"github.com/sergev/anaphora/sexpr"
)

var (
	output io.Writer = os.Stdout

	readMu     sync.Mutex
	readStream = sexpr.NewReader(os.Stdin)
)

// SetOutput redirects display and newline. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	output = w
}

// SetInput redirects read. A nil reader restores stdin.
func SetInput(r io.Reader) {
	readMu.Lock()
	defer readMu.Unlock()
	if r == nil {
		r = os.Stdin
	}
	readStream = sexpr.NewReader(r)
}

func displayString(v lang.Value) string {
	if v.Type == lang.TypeString {
		return v.Str()
	}
	return v.String()
}

func primDisplay(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("display", args, 1); err != nil {
		return lang.Value{}, err
	}
	fmt.Fprint(output, displayString(args[0]))
	return lang.EmptyList, nil
}

func primNewline(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("newline", args, 0); err != nil {
		return lang.Value{}, err
	}
	fmt.Fprintln(output)
	return lang.EmptyList, nil
}

// primRead returns the next form from the input, or the EOF object.
func primRead(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("read", args, 0); err != nil {
		return lang.Value{}, err
	}
	readMu.Lock()
	defer readMu.Unlock()
	val, err := readStream.Read()
	if errors.Is(err, io.EOF) {
		return lang.EOFObject, nil
	}
	return val, err
}
