package ctableau

// preUnifyD implements D's simplified prefix check: D's accessibility
// relation has no structure at all (every world reaches every world), so
// two prefixes are compatible iff they have equal length and unify
// pairwise as ordinary terms. No rewriting search is needed.
func preUnifyD(pre1, pre2 *Term, sub *Substitution) bool {
	l := flattenElems(sub, pre1.Args)
	r := flattenElems(sub, pre2.Args)
	if len(l) != len(r) {
		return false
	}
	mark := sub.Mark()
	for i := range l {
		if !sub.Union(l[i], r[i]) {
			sub.RewindTo(mark)
			return false
		}
	}
	sub.RewindTo(mark)
	return true
}
