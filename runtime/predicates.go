package runtime

import "github.com/sergev/anaphora/lang"

func typePredicate(name string, pred func(lang.Value) bool) lang.Primitive {
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if err := expectArgs(name, args, 1); err != nil {
			return lang.Value{}, err
		}
		return lang.BoolValue(pred(args[0])), nil
	}
}

func isType(t lang.ValueType) func(lang.Value) bool {
	return func(v lang.Value) bool { return v.Type == t }
}

func isNumber(v lang.Value) bool {
	return v.Type == lang.TypeInt || v.Type == lang.TypeReal
}

// isList accepts proper lists only.
func isList(v lang.Value) bool {
	_, err := lang.ToSlice(v)
	return err == nil
}

func isProcedure(v lang.Value) bool {
	switch v.Type {
	case lang.TypePrimitive, lang.TypeClosure, lang.TypeContinuation:
		return true
	}
	return false
}
