package brex

// Split slices s into substrings separated by matches of the pattern,
// returning the substrings between those matches (spec §6.2 Split).
// If n >= 0, at most n substrings are returned, with the last one holding
// the remainder of s unsplit. A negative n returns all substrings.
func (r *Regex) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}

	b := []byte(s)
	limit := n - 1
	if n < 0 {
		limit = -1
	}
	locs := r.FindAllIndex(b, limit)
	if locs == nil {
		return []string{s}
	}

	out := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		out = append(out, s[prev:loc[0]])
		prev = loc[1]
	}
	out = append(out, s[prev:])
	return out
}

// SplitIter reports each piece of s split on a pattern match via yield,
// one at a time, stopping early if yield returns false (spec §6.4's
// stateful-iterator shape applied to Split rather than FindAll).
func (r *Regex) SplitIter(s string, yield func(piece string) bool) {
	b := []byte(s)
	prev := 0
	for {
		loc := r.FindIndex(b[prev:])
		if loc == nil {
			break
		}
		start, end := prev+loc[0], prev+loc[1]
		if !yield(s[prev:start]) {
			return
		}
		if end > prev {
			prev = end
		} else {
			prev++
			if prev > len(b) {
				break
			}
		}
	}
	yield(s[prev:])
}
