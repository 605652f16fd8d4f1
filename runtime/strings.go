package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sergev/anaphora/lang"
)

func primStringLength(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("stringLength", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeString {
		return lang.Value{}, typeError("stringLength", "string", args[0])
	}
	return lang.IntValue(int64(len(args[0].Str()))), nil
}

func primStringAppend(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	var sb strings.Builder
	for _, arg := range args {
		if arg.Type != lang.TypeString {
			return lang.Value{}, typeError("stringAppend", "string", arg)
		}
		sb.WriteString(arg.Str())
	}
	return lang.StringValue(sb.String()), nil
}

// primStringSlice returns the bytes of a string from start up to end, which
// defaults to the length of the string.
func primStringSlice(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return lang.Value{}, fmt.Errorf("stringSlice expects 2 or 3 arguments, got %d", len(args))
	}
	if args[0].Type != lang.TypeString {
		return lang.Value{}, typeError("stringSlice", "string", args[0])
	}
	str := args[0].Str()
	bounds := []int64{0, int64(len(str))}
	for i, arg := range args[1:] {
		if arg.Type != lang.TypeInt {
			return lang.Value{}, typeError("stringSlice", "integer", arg)
		}
		bounds[i] = arg.Int()
	}
	start, end := bounds[0], bounds[1]
	if start < 0 || end > int64(len(str)) || start > end {
		return lang.Value{}, fmt.Errorf("stringSlice range %d..%d out of bounds for length %d", start, end, len(str))
	}
	return lang.StringValue(str[start:end]), nil
}

// primMakeString repeats a one-character fill string, a space by default.
func primMakeString(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return lang.Value{}, fmt.Errorf("makeString expects 1 or 2 arguments, got %d", len(args))
	}
	if args[0].Type != lang.TypeInt {
		return lang.Value{}, typeError("makeString", "integer", args[0])
	}
	n := args[0].Int()
	if n < 0 {
		return lang.Value{}, fmt.Errorf("makeString length must be non-negative, got %d", n)
	}
	fill := " "
	if len(args) == 2 {
		if args[1].Type != lang.TypeString {
			return lang.Value{}, typeError("makeString", "string", args[1])
		}
		if fill = args[1].Str(); len(fill) != 1 {
			return lang.Value{}, fmt.Errorf("makeString expects a single-character fill, got %q", fill)
		}
	}
	return lang.StringValue(strings.Repeat(fill, int(n))), nil
}

func primSymbolToString(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("symbolToString", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeSymbol {
		return lang.Value{}, typeError("symbolToString", "symbol", args[0])
	}
	return lang.StringValue(args[0].Sym()), nil
}

func primStringToSymbol(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("stringToSymbol", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeString {
		return lang.Value{}, typeError("stringToSymbol", "string", args[0])
	}
	return lang.SymbolValue(args[0].Str()), nil
}

func primNumberToString(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("numberToString", args, 1); err != nil {
		return lang.Value{}, err
	}
	switch args[0].Type {
	case lang.TypeInt:
		return lang.StringValue(strconv.FormatInt(args[0].Int(), 10)), nil
	case lang.TypeReal:
		return lang.StringValue(strconv.FormatFloat(args[0].Real(), 'g', -1, 64)), nil
	}
	return lang.Value{}, typeError("numberToString", "number", args[0])
}

// primStringToNumber yields #f when the string is not a number.
func primStringToNumber(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("stringToNumber", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeString {
		return lang.Value{}, typeError("stringToNumber", "string", args[0])
	}
	str := strings.TrimSpace(args[0].Str())
	if i, err := strconv.ParseInt(str, 10, 64); err == nil {
		return lang.IntValue(i), nil
	}
	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return lang.RealValue(f), nil
	}
	return lang.BoolValue(false), nil
}
