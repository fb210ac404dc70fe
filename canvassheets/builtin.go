package canvassheets

import (
	"math"
	"strconv"
	"strings"
)

// toNumber coerces a scalar to a float: numbers pass through, booleans map
// to 0 and 1, numeric strings parse. Empty, date, time, and error values
// refuse.
func toNumber(v CellValue) (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// isTruthy coerces a scalar to a condition: empty, zero, false, and the
// empty string are false; numeric strings follow their number value;
// everything else is true.
func isTruthy(v CellValue) bool {
	switch v.kind {
	case KindEmpty:
		return false
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	case KindString:
		if v.str == "" {
			return false
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64); err == nil {
			return f != 0
		}
		return true
	}
	return true
}

// callBuiltin dispatches a function call by case-insensitive name. MEAN is
// an alias for AVERAGE. Arity is validated before any coercion.
func callBuiltin(name string, args []value) (value, error) {
	upper := strings.ToUpper(name)
	if upper == "MEAN" {
		upper = "AVERAGE"
	}
	switch upper {
	case "SUM":
		return fnSum(args)
	case "AVERAGE":
		return fnAverage(args)
	case "MIN":
		return fnMin(args)
	case "MAX":
		return fnMax(args)
	case "COUNT":
		return fnCount(args)
	case "COUNTA":
		return fnCountA(args)
	case "IF":
		return fnIf(args)
	case "AND":
		return fnAnd(args)
	case "OR":
		return fnOr(args)
	case "NOT":
		return fnNot(args)
	case "PMT":
		return fnPmt(args)
	case "ABS":
		return fnAbs(args)
	case "ROUND":
		return fnRound(args)
	case "FLOOR":
		return fnFloor(args)
	case "CEIL":
		return fnCeil(args)
	case "SQRT":
		return fnSqrt(args)
	case "POWER":
		return fnPower(args)
	case "LOG":
		return fnLog(args)
	case "LOG10":
		return fnLog10(args)
	case "EXP":
		return fnExp(args)
	case "SIN":
		return fnSin(args)
	case "COS":
		return fnCos(args)
	case "TAN":
		return fnTan(args)
	default:
		return value{}, newError(CodeUnknownFunction, "unknown function %q", name)
	}
}

// needArgs validates an argument count; max of -1 means unbounded.
func needArgs(name string, args []value, min, max int) error {
	n := len(args)
	switch {
	case max >= 0 && min == max && n != min:
		return newError(CodeArityError, "%s requires exactly %d argument(s), got %d", name, min, n)
	case n < min:
		return newError(CodeArityError, "%s requires at least %d argument(s), got %d", name, min, n)
	case max >= 0 && n > max:
		return newError(CodeArityError, "%s accepts at most %d argument(s), got %d", name, max, n)
	}
	return nil
}

// flattenArgs expands every argument element-wise in reading order.
func flattenArgs(args []value) []CellValue {
	var out []CellValue
	for _, a := range args {
		out = a.flatten(out)
	}
	return out
}

// numberArg collapses one argument to a numeric scalar.
func numberArg(name string, v value) (float64, error) {
	scalar, err := v.collapse()
	if err != nil {
		return 0, err
	}
	f, ok := toNumber(scalar)
	if !ok {
		return 0, newError(CodeDomainError, "%s requires a numeric argument", name)
	}
	return f, nil
}

func fnSum(args []value) (value, error) {
	if err := needArgs("SUM", args, 1, -1); err != nil {
		return value{}, err
	}
	total := 0.0
	for _, v := range flattenArgs(args) {
		if f, ok := toNumber(v); ok {
			total += f
		}
	}
	return scalarValue(Number(total)), nil
}

// fnAverage returns NaN for an input set with no numeric elements.
func fnAverage(args []value) (value, error) {
	if err := needArgs("AVERAGE", args, 1, -1); err != nil {
		return value{}, err
	}
	total, count := 0.0, 0
	for _, v := range flattenArgs(args) {
		if f, ok := toNumber(v); ok {
			total += f
			count++
		}
	}
	if count == 0 {
		return scalarValue(Number(math.NaN())), nil
	}
	return scalarValue(Number(total / float64(count))), nil
}

// fnMin returns an empty value when no element is numeric.
func fnMin(args []value) (value, error) {
	if err := needArgs("MIN", args, 1, -1); err != nil {
		return value{}, err
	}
	best, found := 0.0, false
	for _, v := range flattenArgs(args) {
		if f, ok := toNumber(v); ok {
			if !found || f < best {
				best = f
			}
			found = true
		}
	}
	if !found {
		return scalarValue(Empty()), nil
	}
	return scalarValue(Number(best)), nil
}

// fnMax returns an empty value when no element is numeric.
func fnMax(args []value) (value, error) {
	if err := needArgs("MAX", args, 1, -1); err != nil {
		return value{}, err
	}
	best, found := 0.0, false
	for _, v := range flattenArgs(args) {
		if f, ok := toNumber(v); ok {
			if !found || f > best {
				best = f
			}
			found = true
		}
	}
	if !found {
		return scalarValue(Empty()), nil
	}
	return scalarValue(Number(best)), nil
}

func fnCount(args []value) (value, error) {
	if err := needArgs("COUNT", args, 1, -1); err != nil {
		return value{}, err
	}
	n := 0
	for _, v := range flattenArgs(args) {
		if _, ok := toNumber(v); ok {
			n++
		}
	}
	return scalarValue(Number(float64(n))), nil
}

// fnCountA counts elements that are neither empty nor the empty string.
func fnCountA(args []value) (value, error) {
	if err := needArgs("COUNTA", args, 1, -1); err != nil {
		return value{}, err
	}
	n := 0
	for _, v := range flattenArgs(args) {
		if v.kind == KindEmpty {
			continue
		}
		if v.kind == KindString && v.str == "" {
			continue
		}
		n++
	}
	return scalarValue(Number(float64(n))), nil
}

func fnIf(args []value) (value, error) {
	if err := needArgs("IF", args, 3, 3); err != nil {
		return value{}, err
	}
	cond, err := args[0].collapse()
	if err != nil {
		return value{}, err
	}
	if isTruthy(cond) {
		return args[1], nil
	}
	return args[2], nil
}

func fnAnd(args []value) (value, error) {
	if err := needArgs("AND", args, 1, -1); err != nil {
		return value{}, err
	}
	for _, v := range flattenArgs(args) {
		if !isTruthy(v) {
			return scalarValue(Bool(false)), nil
		}
	}
	return scalarValue(Bool(true)), nil
}

func fnOr(args []value) (value, error) {
	if err := needArgs("OR", args, 1, -1); err != nil {
		return value{}, err
	}
	for _, v := range flattenArgs(args) {
		if isTruthy(v) {
			return scalarValue(Bool(true)), nil
		}
	}
	return scalarValue(Bool(false)), nil
}

func fnNot(args []value) (value, error) {
	if err := needArgs("NOT", args, 1, 1); err != nil {
		return value{}, err
	}
	scalar, err := args[0].collapse()
	if err != nil {
		return value{}, err
	}
	return scalarValue(Bool(!isTruthy(scalar))), nil
}

// fnPmt computes the fixed payment of an annuity: PMT(rate, nper, pv, fv,
// when), with fv and when defaulting to 0. when is 1 for payments due at
// the start of the period.
func fnPmt(args []value) (value, error) {
	if err := needArgs("PMT", args, 3, 5); err != nil {
		return value{}, err
	}
	vals := make([]float64, 5)
	for i, a := range args {
		f, err := numberArg("PMT", a)
		if err != nil {
			return value{}, err
		}
		vals[i] = f
	}
	rate, nper, pv, fv, when := vals[0], vals[1], vals[2], vals[3], vals[4]
	if nper == 0 {
		return value{}, newError(CodeDivisionByZero, "PMT with zero periods")
	}
	if rate == 0 {
		return scalarValue(Number(-(pv + fv) / nper)), nil
	}
	growth := math.Pow(1+rate, nper)
	payment := -(pv*growth + fv) * rate / ((growth - 1) * (1 + rate*when))
	return scalarValue(Number(payment)), nil
}

func fnAbs(args []value) (value, error) {
	if err := needArgs("ABS", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("ABS", args[0])
	if err != nil {
		return value{}, err
	}
	return scalarValue(Number(math.Abs(x))), nil
}

// fnRound rounds half away from zero to an optional digit count.
func fnRound(args []value) (value, error) {
	if err := needArgs("ROUND", args, 1, 2); err != nil {
		return value{}, err
	}
	x, err := numberArg("ROUND", args[0])
	if err != nil {
		return value{}, err
	}
	digits := 0.0
	if len(args) == 2 {
		digits, err = numberArg("ROUND", args[1])
		if err != nil {
			return value{}, err
		}
	}
	shift := math.Pow(10, digits)
	return scalarValue(Number(math.Round(x*shift) / shift)), nil
}

func fnFloor(args []value) (value, error) {
	if err := needArgs("FLOOR", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("FLOOR", args[0])
	if err != nil {
		return value{}, err
	}
	return scalarValue(Number(math.Floor(x))), nil
}

func fnCeil(args []value) (value, error) {
	if err := needArgs("CEIL", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("CEIL", args[0])
	if err != nil {
		return value{}, err
	}
	return scalarValue(Number(math.Ceil(x))), nil
}

func fnSqrt(args []value) (value, error) {
	if err := needArgs("SQRT", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("SQRT", args[0])
	if err != nil {
		return value{}, err
	}
	if x < 0 {
		return value{}, newError(CodeDomainError, "SQRT of a negative number")
	}
	return scalarValue(Number(math.Sqrt(x))), nil
}

func fnPower(args []value) (value, error) {
	if err := needArgs("POWER", args, 2, 2); err != nil {
		return value{}, err
	}
	base, err := numberArg("POWER", args[0])
	if err != nil {
		return value{}, err
	}
	exp, err := numberArg("POWER", args[1])
	if err != nil {
		return value{}, err
	}
	return scalarValue(Number(math.Pow(base, exp))), nil
}

// fnLog is the natural logarithm, or the logarithm in an explicit base.
func fnLog(args []value) (value, error) {
	if err := needArgs("LOG", args, 1, 2); err != nil {
		return value{}, err
	}
	x, err := numberArg("LOG", args[0])
	if err != nil {
		return value{}, err
	}
	if x <= 0 {
		return value{}, newError(CodeDomainError, "LOG of a non-positive number")
	}
	if len(args) == 1 {
		return scalarValue(Number(math.Log(x))), nil
	}
	base, err := numberArg("LOG", args[1])
	if err != nil {
		return value{}, err
	}
	if base <= 0 || base == 1 {
		return value{}, newError(CodeDomainError, "LOG base out of domain")
	}
	return scalarValue(Number(math.Log(x) / math.Log(base))), nil
}

func fnLog10(args []value) (value, error) {
	if err := needArgs("LOG10", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("LOG10", args[0])
	if err != nil {
		return value{}, err
	}
	if x <= 0 {
		return value{}, newError(CodeDomainError, "LOG10 of a non-positive number")
	}
	return scalarValue(Number(math.Log10(x))), nil
}

func fnExp(args []value) (value, error) {
	if err := needArgs("EXP", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("EXP", args[0])
	if err != nil {
		return value{}, err
	}
	return scalarValue(Number(math.Exp(x))), nil
}

func fnSin(args []value) (value, error) {
	if err := needArgs("SIN", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("SIN", args[0])
	if err != nil {
		return value{}, err
	}
	return scalarValue(Number(math.Sin(x))), nil
}

func fnCos(args []value) (value, error) {
	if err := needArgs("COS", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("COS", args[0])
	if err != nil {
		return value{}, err
	}
	return scalarValue(Number(math.Cos(x))), nil
}

func fnTan(args []value) (value, error) {
	if err := needArgs("TAN", args, 1, 1); err != nil {
		return value{}, err
	}
	x, err := numberArg("TAN", args[0])
	if err != nil {
		return value{}, err
	}
	return scalarValue(Number(math.Tan(x))), nil
}
