package encoding

// LocaleTable is the pre-scanned 256-entry table a host platform's locale
// scanning produces (spec §1: "results of locale scanning are consumed as
// an opaque table"; §4.1: "the locale implementation reads a pre-scanned
// 256-entry properties/uppercase/lowercase table"). Index 0..255 covers
// every byte value in the active 8-bit locale.
type LocaleTable struct {
	IsWord  [256]bool
	IsSpace [256]bool
	IsDigit [256]bool
	Upper   [256]byte // Upper[c] == c if c has no uppercase form
	Lower   [256]byte // Lower[c] == c if c has no lowercase form
}

// NewCLocaleTable returns the table for the POSIX "C" locale, which agrees
// with the ASCII classification. Hosts that scan a real locale populate
// their own LocaleTable and pass it to NewLocale.
func NewCLocaleTable() *LocaleTable {
	t := &LocaleTable{}
	for c := 0; c < 256; c++ {
		t.Upper[c] = byte(c)
		t.Lower[c] = byte(c)
		r := rune(c)
		t.IsWord[c] = isASCIIWord(r)
		t.IsDigit[c] = r >= '0' && r <= '9'
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			t.IsSpace[c] = true
		}
	}
	for c := 'a'; c <= 'z'; c++ {
		t.Upper[c] = byte(c - 32)
	}
	for c := 'A'; c <= 'Z'; c++ {
		t.Lower[c] = byte(c + 32)
	}
	return t
}

// Locale implements Encoding against a host-supplied 256-entry table.
// Codepoints above 0xFF behave like ASCII: word/space/digit predicates
// fail, consistent with the table's 8-bit domain.
type Locale struct {
	table *LocaleTable
}

// NewLocale wraps a LocaleTable as an Encoding.
func NewLocale(table *LocaleTable) *Locale {
	if table == nil {
		table = NewCLocaleTable()
	}
	return &Locale{table: table}
}

func (l *Locale) isWord(ch rune) bool {
	if ch < 0 || ch > 0xFF {
		return false
	}
	return l.table.IsWord[ch]
}

// HasProperty consults the locale table for word/digit/space categories.
func (l *Locale) HasProperty(prop Property, ch rune) bool {
	if ch < 0 || ch > 0xFF {
		return false
	}
	switch prop.Category() {
	case propCategoryWord:
		return l.table.IsWord[ch]
	case propCategoryDigit:
		return l.table.IsDigit[ch]
	case propCategorySpace:
		return l.table.IsSpace[ch]
	default:
		return false
	}
}

func (l *Locale) boundary(before, after rune, beforeValid, afterValid bool) bool {
	return (beforeValid && l.isWord(before)) != (afterValid && l.isWord(after))
}

// AtBoundary uses the locale's own word-character table.
func (l *Locale) AtBoundary(before, after rune, beforeValid, afterValid bool) bool {
	return l.boundary(before, after, beforeValid, afterValid)
}

// AtDefaultBoundary falls back to the locale table; Unicode's default
// algorithm does not apply outside Unicode mode.
func (l *Locale) AtDefaultBoundary(before, after rune, beforeValid, afterValid bool) bool {
	return l.boundary(before, after, beforeValid, afterValid)
}

// AtWordStart reports a non-word-to-word transition.
func (l *Locale) AtWordStart(before, after rune, beforeValid, afterValid bool) bool {
	return !(beforeValid && l.isWord(before)) && (afterValid && l.isWord(after))
}

// AtWordEnd reports a word-to-non-word transition.
func (l *Locale) AtWordEnd(before, after rune, beforeValid, afterValid bool) bool {
	return (beforeValid && l.isWord(before)) && !(afterValid && l.isWord(after))
}

// AtGraphemeBoundary treats every byte as its own cluster; locale mode
// predates grapheme-cluster awareness.
func (l *Locale) AtGraphemeBoundary(before, after rune, beforeValid, afterValid bool) bool {
	return true
}

// IsLineSep reports '\n' as the locale line separator.
func (l *Locale) IsLineSep(ch rune) bool { return ch == '\n' }

// PossibleTurkic reports whether ch is the ASCII I/i pair; 8-bit locales
// do not carry the dotted/dotless Unicode variants.
func (l *Locale) PossibleTurkic(ch rune) bool { return ch == asciiUpperI || ch == asciiLowerI }

// AllTurkicI returns the ASCII I/i pair for ASCII input.
func (l *Locale) AllTurkicI(ch rune) []rune {
	if ch == asciiUpperI || ch == asciiLowerI {
		return []rune{asciiUpperI, asciiLowerI}
	}
	return []rune{ch}
}

// AllCases returns ch plus its table-defined upper/lower partner.
func (l *Locale) AllCases(ch rune) []rune {
	if ch < 0 || ch > 0xFF {
		return []rune{ch}
	}
	out := []rune{ch}
	if u := rune(l.table.Upper[ch]); u != ch {
		out = append(out, u)
	}
	if lo := rune(l.table.Lower[ch]); lo != ch && lo != out[len(out)-1] {
		out = append(out, lo)
	}
	return out
}

// SimpleCaseFold folds via the table's Lower mapping.
func (l *Locale) SimpleCaseFold(ch rune) rune {
	if ch < 0 || ch > 0xFF {
		return ch
	}
	return rune(l.table.Lower[ch])
}

// FullCaseFold is identical to SimpleCaseFold: 8-bit locale tables carry
// no multi-character fold expansions.
func (l *Locale) FullCaseFold(ch rune) []rune {
	return []rune{l.SimpleCaseFold(ch)}
}
