package ast

// WalkRules visits every rule in the given list depth-first, pre-order,
// descending into at-rule bodies and keyframe blocks.
func WalkRules(rules []Rule, f func(Rule)) {
	for _, r := range rules {
		f(r)
		switch rr := r.(type) {
		case *StyleRule:
			WalkRules(rr.Body, f)
		case *MediaRule:
			WalkRules(rr.Body, f)
		case *KnownAtRule:
			WalkRules(rr.Body, f)
		case *KeyframesRule:
			for _, b := range rr.Blocks {
				WalkRules(b.Body, f)
			}
		}
	}
}

// RewriteRules applies f to every rule list in the tree, bottom-up: nested
// bodies are rewritten before the list containing them. f receives a list
// and returns its replacement; returning the input unchanged is the
// pass-through.
func RewriteRules(rules []Rule, f func([]Rule) []Rule) []Rule {
	for _, r := range rules {
		switch rr := r.(type) {
		case *StyleRule:
			rr.Body = RewriteRules(rr.Body, f)
		case *MediaRule:
			rr.Body = RewriteRules(rr.Body, f)
		case *KnownAtRule:
			if rr.Body != nil {
				rr.Body = RewriteRules(rr.Body, f)
			}
		case *KeyframesRule:
			for _, b := range rr.Blocks {
				b.Body = RewriteRules(b.Body, f)
			}
		}
	}
	return f(rules)
}

// Clone returns a shallow copy of the declaration. The value is shared;
// passes that rewrite the copy's value must build a fresh one.
func (d *Declaration) Clone() *Declaration {
	c := *d
	return &c
}

// RewriteValue applies f to every node of a value tree, bottom-up:
// children are rewritten before their parent is handed to f. The input
// is never mutated; rewritten branches are fresh nodes.
func RewriteValue(v Value, f func(Value) Value) Value {
	switch v := v.(type) {
	case *Function:
		args := make([]Value, len(v.Args))
		for i, a := range v.Args {
			args[i] = RewriteValue(a, f)
		}
		return f(&Function{Name: v.Name, Args: args})
	case *Calc:
		return f(&Calc{Name: v.Name, Root: RewriteValue(v.Root, f)})
	case *CalcExpr:
		return f(&CalcExpr{Op: v.Op,
			Left:  RewriteValue(v.Left, f),
			Right: RewriteValue(v.Right, f)})
	case *VarRef:
		out := &VarRef{Name: v.Name}
		if v.Fallback != nil {
			out.Fallback = RewriteValue(v.Fallback, f)
		}
		return f(out)
	case CommaList:
		members := make(CommaList, len(v))
		for i, m := range v {
			members[i] = RewriteValue(m, f)
		}
		return f(members)
	case SpaceList:
		members := make(SpaceList, len(v))
		for i, m := range v {
			members[i] = RewriteValue(m, f)
		}
		return f(members)
	case nil:
		return nil
	}
	return f(v)
}
