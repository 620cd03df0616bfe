// Package scopes implements validate_scopes (spec.md §4.8): the client
// scope-intersection check used by authenticate_client. It is grounded on
// dexidp/dex's pkg/groups.Filter, which intersects a requested set against
// an allowed set; adapted here to preserve the caller's requested order
// (Filter iterates the allowed set's membership test over "given" already,
// which happens to preserve order — this package makes that guarantee
// explicit and adds the strict-mode all-or-nothing behavior spec.md §4.8
// requires that Filter has no equivalent for).
package scopes

// Validate returns requested ∩ permitted, preserving the order scopes
// appear in requested. If strict is true and any requested scope is
// missing from permitted, Validate returns (nil, false). Otherwise it
// returns (nil, false) only when the intersection is empty; a non-empty
// intersection is always returned with ok=true, even in strict mode
// (strict mode only rejects when something requested was dropped).
func Validate(requested, permitted []string, strict bool) ([]string, bool) {
	allowed := make(map[string]struct{}, len(permitted))
	for _, s := range permitted {
		allowed[s] = struct{}{}
	}

	valid := make([]string, 0, len(requested))
	for _, s := range requested {
		if _, ok := allowed[s]; ok {
			valid = append(valid, s)
		}
	}

	if strict && len(valid) != len(requested) {
		return nil, false
	}
	if len(valid) == 0 {
		return nil, false
	}
	return valid, true
}
