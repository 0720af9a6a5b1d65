package intrinsics

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

// builtins is the fixed table backing every "std_*" name.
// It is intentionally a plain map rather than a struct-of-fields registry:
// every entry has the identical Func contract, and the table is never
// mutated after package init.
var builtins map[string]Func

// builtinArity mirrors the checkArity call inside each entry of builtins,
// so the resolver can reject a wrong-arity call before resolving any
// argument instead of after. Kept in lockstep with builtins by hand: every
// Func below still checks its own arity too, since a builtin is also
// reachable with unresolved args of unknown count in isolation (tests,
// future callers) and must not rely on the resolver having checked first.
var builtinArity = map[string]int{
	"std_add_int": 2,
	"std_sub_int": 2,
	"std_mul_int": 2,
	"std_div_int": 2,
	"std_mod_int": 2,

	"std_add_float": 2,
	"std_sub_float": 2,
	"std_mul_float": 2,
	"std_div_float": 2,

	"std_int_to_float": 1,
	"std_float_to_int": 1,

	"std_eq": 2,
	"std_lt": 2,
	"std_gt": 2,

	"std_bitwise_and": 2,
	"std_bitwise_or":  2,
	"std_bitwise_xor": 2,
	"std_bitwise_not": 1,

	"std_to_uppercase": 1,
	"std_to_lowercase": 1,
	"std_substring":    3,
	"std_concat":       3,
	"std_replace":      3,

	"std_base64_encode": 1,
	"std_base64_decode": 1,
	"std_hash":          2,

	"std_if":  3,
	"std_try": 2,

	"std_len":      1,
	"std_index_of": 2,
	"std_type_of":  1,
}

func init() {
	builtins = map[string]Func{
		"std_add_int": intBinOp("std_add_int", func(a, b int64) (int64, error) { return a + b, nil }),
		"std_sub_int": intBinOp("std_sub_int", func(a, b int64) (int64, error) { return a - b, nil }),
		"std_mul_int": intBinOp("std_mul_int", func(a, b int64) (int64, error) { return a * b, nil }),
		"std_div_int": intBinOp("std_div_int", func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, vtcerr.New(vtcerr.InvalidIntrinsicArgs, "std_div_int: division by zero")
			}
			return a / b, nil
		}),
		"std_mod_int": intBinOp("std_mod_int", func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, vtcerr.New(vtcerr.InvalidIntrinsicArgs, "std_mod_int: division by zero")
			}
			return a % b, nil
		}),

		"std_add_float": floatBinOp("std_add_float", func(a, b float64) (float64, error) { return a + b, nil }),
		"std_sub_float": floatBinOp("std_sub_float", func(a, b float64) (float64, error) { return a - b, nil }),
		"std_mul_float": floatBinOp("std_mul_float", func(a, b float64) (float64, error) { return a * b, nil }),
		"std_div_float": floatBinOp("std_div_float", func(a, b float64) (float64, error) {
			if b == 0.0 {
				return 0, vtcerr.New(vtcerr.InvalidIntrinsicArgs, "std_div_float: division by zero")
			}
			return a / b, nil
		}),

		"std_int_to_float": stdIntToFloat,
		"std_float_to_int": stdFloatToInt,

		"std_eq": stdEq,
		"std_lt": numericCompare("std_lt", func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b }),
		"std_gt": numericCompare("std_gt", func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b }),

		"std_bitwise_and": intBinOp("std_bitwise_and", func(a, b int64) (int64, error) { return a & b, nil }),
		"std_bitwise_or":  intBinOp("std_bitwise_or", func(a, b int64) (int64, error) { return a | b, nil }),
		"std_bitwise_xor": intBinOp("std_bitwise_xor", func(a, b int64) (int64, error) { return a ^ b, nil }),
		"std_bitwise_not": stdBitwiseNot,

		"std_to_uppercase": stdToUppercase,
		"std_to_lowercase": stdToLowercase,
		"std_substring":    stdSubstring,
		"std_concat":       stdConcat,
		"std_replace":      stdReplace,

		"std_base64_encode": stdBase64Encode,
		"std_base64_decode": stdBase64Decode,
		"std_hash":          stdHash,

		"std_if":  stdIf,
		"std_try": stdTry,

		"std_len":      stdLen,
		"std_index_of": stdIndexOf,
		"std_type_of":  stdTypeOf,
	}
}

func intBinOp(name string, fn func(a, b int64) (int64, error)) Func {
	return func(args []value.Value) (value.Value, error) {
		if err := checkArity(name, args, 2); err != nil {
			return value.Value{}, err
		}
		a, err := asInt(name, args, 0)
		if err != nil {
			return value.Value{}, err
		}
		b, err := asInt(name, args, 1)
		if err != nil {
			return value.Value{}, err
		}
		r, err := fn(a, b)
		if err != nil {
			return value.Value{}, err
		}
		return value.Integer(r), nil
	}
}

func floatBinOp(name string, fn func(a, b float64) (float64, error)) Func {
	return func(args []value.Value) (value.Value, error) {
		if err := checkArity(name, args, 2); err != nil {
			return value.Value{}, err
		}
		a, err := asFloat(name, args, 0)
		if err != nil {
			return value.Value{}, err
		}
		b, err := asFloat(name, args, 1)
		if err != nil {
			return value.Value{}, err
		}
		r, err := fn(a, b)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(r), nil
	}
}

func stdIntToFloat(args []value.Value) (value.Value, error) {
	if err := checkArity("std_int_to_float", args, 1); err != nil {
		return value.Value{}, err
	}
	i, err := asInt("std_int_to_float", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.Float(float64(i)), nil
}

func stdFloatToInt(args []value.Value) (value.Value, error) {
	if err := checkArity("std_float_to_int", args, 1); err != nil {
		return value.Value{}, err
	}
	f, err := asFloat("std_float_to_int", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.Integer(int64(f)), nil // truncation toward zero
}

// numClass groups the four numeric Value kinds into the two classes that
// matter for comparison: integer-identity (Integer/Binary/Hexadecimal,
// which share one arithmetic identity) and float.
func numClass(v value.Value) (isFloat bool, ok bool) {
	if v.Kind() == value.KindFloat {
		return true, true
	}
	if isIntLike(v) {
		return false, true
	}
	return false, false
}

func stdEq(args []value.Value) (value.Value, error) {
	if err := checkArity("std_eq", args, 2); err != nil {
		return value.Value{}, err
	}
	a, b := args[0], args[1]
	aFloat, aOK := numClass(a)
	bFloat, bOK := numClass(b)
	if !aOK {
		return value.Value{}, typeMismatch("std_eq", 0, "number", a)
	}
	if !bOK {
		return value.Value{}, typeMismatch("std_eq", 1, "number", b)
	}
	if aFloat != bFloat {
		// eq of different numeric kinds => false.
		return value.Bool(false), nil
	}
	if aFloat {
		return value.Bool(a.FloatVal() == b.FloatVal()), nil
	}
	return value.Bool(a.IntVal() == b.IntVal()), nil
}

func numericCompare(name string, intCmp func(a, b int64) bool, floatCmp func(a, b float64) bool) Func {
	return func(args []value.Value) (value.Value, error) {
		if err := checkArity(name, args, 2); err != nil {
			return value.Value{}, err
		}
		a, b := args[0], args[1]
		aFloat, aOK := numClass(a)
		bFloat, bOK := numClass(b)
		if !aOK {
			return value.Value{}, typeMismatch(name, 0, "number", a)
		}
		if !bOK {
			return value.Value{}, typeMismatch(name, 1, "number", b)
		}
		if aFloat != bFloat {
			return value.Value{}, vtcerr.New(vtcerr.IntrinsicTypeMismatch,
				fmt.Sprintf("%s: cannot compare mismatched numeric kinds", name))
		}
		if aFloat {
			return value.Bool(floatCmp(a.FloatVal(), b.FloatVal())), nil
		}
		return value.Bool(intCmp(a.IntVal(), b.IntVal())), nil
	}
}

func stdBitwiseNot(args []value.Value) (value.Value, error) {
	if err := checkArity("std_bitwise_not", args, 1); err != nil {
		return value.Value{}, err
	}
	i, err := asInt("std_bitwise_not", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.Integer(^i), nil
}

func stdToUppercase(args []value.Value) (value.Value, error) {
	if err := checkArity("std_to_uppercase", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := asString("std_to_uppercase", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(cases.Upper(language.Und).String(s)), nil
}

func stdToLowercase(args []value.Value) (value.Value, error) {
	if err := checkArity("std_to_lowercase", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := asString("std_to_lowercase", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(cases.Lower(language.Und).String(s)), nil
}

func stdSubstring(args []value.Value) (value.Value, error) {
	if err := checkArity("std_substring", args, 3); err != nil {
		return value.Value{}, err
	}
	s, err := asString("std_substring", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	lo, err := asInt("std_substring", args, 1)
	if err != nil {
		return value.Value{}, err
	}
	hi, err := asInt("std_substring", args, 2)
	if err != nil {
		return value.Value{}, err
	}
	runes := []rune(s)
	if lo < 0 || hi < lo || hi > int64(len(runes)) {
		return value.Value{}, vtcerr.New(vtcerr.InvalidRange,
			fmt.Sprintf("std_substring: invalid range [%d, %d) over %d runes", lo, hi, len(runes)))
	}
	return value.String(string(runes[lo:hi])), nil
}

func stdConcat(args []value.Value) (value.Value, error) {
	if err := checkArity("std_concat", args, 3); err != nil {
		return value.Value{}, err
	}
	var sb strings.Builder
	for i := 0; i < 3; i++ {
		s, err := asString("std_concat", args, i)
		if err != nil {
			return value.Value{}, err
		}
		sb.WriteString(s)
	}
	return value.String(sb.String()), nil
}

func stdReplace(args []value.Value) (value.Value, error) {
	if err := checkArity("std_replace", args, 3); err != nil {
		return value.Value{}, err
	}
	s, err := asString("std_replace", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	old, err := asString("std_replace", args, 1)
	if err != nil {
		return value.Value{}, err
	}
	replacement, err := asString("std_replace", args, 2)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ReplaceAll(s, old, replacement)), nil
}

func stdBase64Encode(args []value.Value) (value.Value, error) {
	if err := checkArity("std_base64_encode", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := asString("std_base64_encode", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(base64.RawURLEncoding.EncodeToString([]byte(s))), nil
}

func stdBase64Decode(args []value.Value) (value.Value, error) {
	if err := checkArity("std_base64_decode", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := asString("std_base64_decode", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return value.Value{}, vtcerr.Wrap(vtcerr.InvalidIntrinsicArgs, err, "std_base64_decode: invalid input")
	}
	return value.String(string(decoded)), nil
}

func stdHash(args []value.Value) (value.Value, error) {
	if err := checkArity("std_hash", args, 2); err != nil {
		return value.Value{}, err
	}
	data, err := asString("std_hash", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	algo, err := asString("std_hash", args, 1)
	if err != nil {
		return value.Value{}, err
	}
	switch algo {
	case "sha256":
		sum := sha256.Sum256([]byte(data))
		return value.String(hex.EncodeToString(sum[:])), nil
	default:
		return value.Value{}, vtcerr.New(vtcerr.InvalidIntrinsicArgs, "std_hash: unsupported algorithm "+algo)
	}
}

// stdIf: both branches are already resolved by the time this runs, because
// intrinsic arguments are evaluated strictly before the call. This is a recognized limitation, not a bug.
func stdIf(args []value.Value) (value.Value, error) {
	if err := checkArity("std_if", args, 3); err != nil {
		return value.Value{}, err
	}
	cond, err := asBool("std_if", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	if cond {
		return args[1], nil
	}
	return args[2], nil
}

// stdTry currently returns its first argument unconditionally; it never
// falls back to the second. This is the specified, current behavior, not
// an oversight.
func stdTry(args []value.Value) (value.Value, error) {
	if err := checkArity("std_try", args, 2); err != nil {
		return value.Value{}, err
	}
	return args[0], nil
}

func stdLen(args []value.Value) (value.Value, error) {
	if err := checkArity("std_len", args, 1); err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind() {
	case value.KindString:
		return value.Integer(int64(len([]rune(args[0].StringVal())))), nil
	case value.KindList:
		return value.Integer(int64(len(args[0].ListVal()))), nil
	default:
		return value.Value{}, typeMismatch("std_len", 0, "string or list", args[0])
	}
}

func stdIndexOf(args []value.Value) (value.Value, error) {
	if err := checkArity("std_index_of", args, 2); err != nil {
		return value.Value{}, err
	}
	haystack, needle := args[0], args[1]
	switch haystack.Kind() {
	case value.KindString:
		n, err := asString("std_index_of", args, 1)
		if err != nil {
			return value.Value{}, err
		}
		runes := []rune(haystack.StringVal())
		needleRunes := []rune(n)
		for i := 0; i+len(needleRunes) <= len(runes); i++ {
			if string(runes[i:i+len(needleRunes)]) == n {
				return value.Integer(int64(i)), nil
			}
		}
		return value.Integer(-1), nil
	case value.KindList:
		for i, item := range haystack.ListVal() {
			if value.Equal(item, needle) {
				return value.Integer(int64(i)), nil
			}
		}
		return value.Integer(-1), nil
	default:
		return value.Value{}, typeMismatch("std_index_of", 0, "string or list", haystack)
	}
}

func stdTypeOf(args []value.Value) (value.Value, error) {
	if err := checkArity("std_type_of", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.String(args[0].Kind().String()), nil
}
