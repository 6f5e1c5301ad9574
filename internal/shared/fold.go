package shared

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FoldText returns s in NFC form with Unicode case folding applied,
// so "ŠIMKUS" and "šimkus" compare equal.
func FoldText(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// LikePattern builds a substring LIKE pattern for phrase, escaping wildcards with '\'.
// Use it together with `ESCAPE '\'`.
func LikePattern(phrase string) string {
	return "%" + likeEscaper.Replace(FoldText(phrase)) + "%"
}

// foldValue backs the fold() SQL function. NULL folds to the empty string and
// numbers fold to their decimal text so integer columns can be searched too.
func foldValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return FoldText(v)
	case []byte:
		return FoldText(string(v))
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return FoldText(fmt.Sprint(v))
	}
}
