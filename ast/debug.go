package ast

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// DebugString renders the rule tree in outline form, for test logs and
// trace output.
func DebugString(sheet *StyleSheet) string {
	printer := tp.New()
	for _, r := range sheet.Rules {
		debugRule(printer, r)
	}
	return printer.String()
}

func debugRule(branch tp.Tree, r Rule) {
	switch rr := r.(type) {
	case *StyleRule:
		b := branch.AddBranch(fmt.Sprintf("rule %v", rr.Selectors))
		for _, item := range rr.Body {
			debugRule(b, item)
		}
	case *Declaration:
		imp := ""
		if rr.Important {
			imp = " !important"
		}
		branch.AddNode(fmt.Sprintf("%s: %v%s", rr.Property, rr.Value, imp))
	case *MediaRule:
		b := branch.AddBranch(fmt.Sprintf("@media %v", rr.Queries))
		for _, item := range rr.Body {
			debugRule(b, item)
		}
	case *ImportRule:
		branch.AddNode(fmt.Sprintf("@import %q", rr.URL))
	case *KeyframesRule:
		b := branch.AddBranch(fmt.Sprintf("@%skeyframes %s", rr.VendorPrefix, rr.Name))
		for _, blk := range rr.Blocks {
			bb := b.AddBranch(fmt.Sprintf("%v", blk.Selectors))
			for _, item := range blk.Body {
				debugRule(bb, item)
			}
		}
	case *KnownAtRule:
		b := branch.AddBranch("@" + rr.Name)
		for _, item := range rr.Body {
			debugRule(b, item)
		}
	case *UnknownAtRule:
		branch.AddNode(fmt.Sprintf("@%s (opaque, %d bytes)", rr.Name, len(rr.Raw)))
	}
}
