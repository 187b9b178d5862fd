package checker

import "treec/internal/typed"

// constraints maps a generic's identifier to the concrete Type it was
// bound to. nil (as opposed to an empty, non-nil map) means "does not
// unify" — the `None` of spec.md §4.6; callers must check for nil, not
// len() == 0, since a successful unification against two types with no
// generics at all legitimately produces an empty map.
type constraints map[string]typed.Type

// typeConstraints implements spec.md §4.6's five rules, checked in order.
func typeConstraints(formal, actual typed.Type) constraints {
	if g, ok := formal.(typed.TGeneric); ok {
		return constraints{string(g.Name): actual}
	}

	if fa, ok := formal.(typed.TApplied); ok {
		if aa, ok := actual.(typed.TApplied); ok {
			if ag, ok := aa.Arg.(typed.TGeneric); ok {
				if fb, ok := fa.Func.(typed.TLambdaHead); ok {
					if ab, ok := aa.Func.(typed.TLambdaHead); ok {
						if fb.Name == ab.Name {
							return constraints{string(ag.Name): fa.Arg}
						}
						return nil
					}
				}
			}
			return mergeConstraints(typeConstraints(fa.Func, aa.Func), typeConstraints(fa.Arg, aa.Arg))
		}
		return matchStructural(formal, actual)
	}

	if fl, ok := formal.(typed.TLambda); ok {
		if al, ok := actual.(typed.TLambda); ok {
			return mergeConstraints(typeConstraints(fl.Param, al.Param), typeConstraints(fl.Result, al.Result))
		}
		return matchStructural(formal, actual)
	}

	return matchStructural(formal, actual)
}

func matchStructural(formal, actual typed.Type) constraints {
	if formal.Equals(actual) {
		return constraints{}
	}
	return nil
}

// mergeConstraints is map union. Per spec.md §9, clashing bindings for the
// same generic are not detected — the later map's value silently wins,
// reproducing the original implementation's documented bug rather than
// fixing it.
func mergeConstraints(a, b constraints) constraints {
	if a == nil || b == nil {
		return nil
	}
	out := constraints{}
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// typeEq is spec.md §4.6's typeEq: a OR b, evaluated in both directions so
// that the asymmetry of rule 1 (generics on the left bind freely, generics
// on the right do not) doesn't make branch-type comparison direction
// dependent.
func typeEq(a, b typed.Type) bool {
	return typeConstraints(a, b) != nil || typeConstraints(b, a) != nil
}

// replaceGenerics rewrites every Generic(n) inside t to its binding in c,
// leaving anything not bound (and every non-Generic constructor) alone.
func replaceGenerics(c constraints, t typed.Type) typed.Type {
	switch x := t.(type) {
	case typed.TGeneric:
		if bound, ok := c[string(x.Name)]; ok {
			return bound
		}
		return x
	case typed.TApplied:
		return typed.TApplied{Func: replaceGenerics(c, x.Func), Arg: replaceGenerics(c, x.Arg)}
	case typed.TLambda:
		return typed.TLambda{Param: replaceGenerics(c, x.Param), Result: replaceGenerics(c, x.Result)}
	default:
		return t
	}
}
