package gridify

import "fmt"

// Render renders an expression tree back into filter DSL text. It exists to
// let tests state the round-trip property "parse(render(parse(s))) ==
// parse(s)"; it is not used by the compiler itself.
//
// Render always parenthesises And/Or children so that the output re-parses
// to a tree with the same shape regardless of the original input's use of
// parentheses. It is grammar-preserving, not a verbatim echo.
func Render(n Node) string {
	switch v := n.(type) {
	case Compare:
		return fmt.Sprintf("%s%s%s", v.Field, v.Op, v.RHS)
	case And:
		return fmt.Sprintf("(%s),(%s)", Render(v.LHS), Render(v.RHS))
	case Or:
		return fmt.Sprintf("(%s)|(%s)", Render(v.LHS), Render(v.RHS))
	default:
		return ""
	}
}
