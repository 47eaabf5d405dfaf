package core

// Equal reports structural equality.  Values of different kinds are never
// equal (Int 1 and Float 1.0 differ); functions, distributions and files
// compare by identity.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case UnitVal:
		return true
	case BoolVal, TernaryVal, IntVal, FloatVal, StringVal, BytesVal, ErrorVal:
		return a == b
	case *ListVal:
		return equalSlices(a.Elems, b.(*ListVal).Elems)
	case *TupleVal:
		return equalSlices(a.Elems, b.(*TupleVal).Elems)
	case *VariantVal:
		bv := b.(*VariantVal)
		return a.Tag == bv.Tag && equalSlices(a.Args, bv.Args)
	case *MapVal:
		bm := b.(*MapVal)
		if a.Len() != bm.Len() {
			return false
		}
		for k, av := range a.entries {
			bv, ok := bm.entries[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case *SetVal:
		bs := b.(*SetVal)
		if a.Len() != bs.Len() {
			return false
		}
		for _, e := range a.elems {
			if !bs.Has(e) {
				return false
			}
		}
		return true
	}
	return a == b
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
