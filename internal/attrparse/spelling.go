// Package attrparse implements the attribute-spelling parser (spec.md
// §4.1, component B) and the unexposed-token parser (spec.md §4.2,
// component C). Both operate purely on the display-name strings Clang
// hands back; neither touches a Clang cursor or type directly, which is
// what keeps them unit-testable without libclang.
package attrparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Position names one end of the attributed spelling a token may be
// stripped from.
type Position int

const (
	Prefix Position = iota
	Suffix
)

// Token is one of the attribute spellings spec.md §4.1 names.
type Token string

const (
	TokenConst            Token = "const"
	TokenStrong           Token = "__strong"
	TokenWeak             Token = "__weak"
	TokenUnsafeUnretained Token = "__unsafe_unretained"
	TokenAutoreleasing    Token = "__autoreleasing"
	TokenNonnull          Token = "_Nonnull"
	TokenNullable         Token = "_Nullable"
	TokenNullUnspecified  Token = "_Null_unspecified"
	TokenNullableResult   Token = "_Nullable_result"
	TokenKindof           Token = "__kindof"
)

var lifetimeTokens = []Token{TokenStrong, TokenWeak, TokenUnsafeUnretained, TokenAutoreleasing}
var nullabilityTokens = []Token{TokenNonnull, TokenNullable, TokenNullUnspecified}

// Parser implements the strip-and-assert algorithm of spec.md §4.1. It
// holds both spellings and is meant to be discarded after a single
// type's attributes have been peeled; Close reports the drop invariant
// (I4) as a soft error instead of panicking, since header evolution
// must not halt generation (spec.md §4.9).
type Parser struct {
	attributed string
	canonical  string
	errs       []error
}

// New creates a Parser over the attributed and canonical spellings of
// one Clang type.
func New(attributed, canonical string) *Parser {
	return &Parser{attributed: strings.TrimSpace(attributed), canonical: strings.TrimSpace(canonical)}
}

// Remaining returns the current (possibly partially stripped)
// attributed spelling.
func (p *Parser) Remaining() string { return p.attributed }

// Errors returns the soft errors accumulated so far.
func (p *Parser) Errors() []error { return p.errs }

func hasPrefixToken(s string, t Token) (string, bool) {
	ts := string(t)
	trimmed := strings.TrimLeft(s, " ")
	if trimmed == ts || strings.HasPrefix(trimmed, ts+" ") || strings.HasPrefix(trimmed, ts+"*") {
		return strings.TrimLeft(strings.TrimPrefix(trimmed, ts), " "), true
	}
	return s, false
}

func hasSuffixToken(s string, t Token) (string, bool) {
	ts := string(t)
	trimmed := strings.TrimRight(s, " ")
	if trimmed == ts || strings.HasSuffix(trimmed, " "+ts) {
		return strings.TrimRight(strings.TrimSuffix(trimmed, ts), " "), true
	}
	return s, false
}

func countOccurrences(s string, t Token) int {
	return strings.Count(" "+s+" ", " "+string(t)+" ")
}

// Strip attempts to remove token from the named end of the attributed
// spelling. It succeeds only under spec.md §4.1's (a)/(b.i)/(b.ii)
// rule: the token must be present at that end of the attributed
// string, and either it is absent from the canonical spelling
// entirely, or it appears on both ends of the attributed spelling but
// only once in the canonical spelling (the doubled-nullability case,
// spec.md §8 scenario 2).
func (p *Parser) Strip(pos Position, t Token) bool {
	var stripFn func(string, Token) (string, bool)
	if pos == Prefix {
		stripFn = hasPrefixToken
	} else {
		stripFn = hasSuffixToken
	}

	rest, ok := stripFn(p.attributed, t)
	if !ok {
		return false
	}

	canonicalCount := countOccurrences(p.canonical, t)
	if canonicalCount == 0 {
		p.attributed = rest
		return true
	}

	// b.ii: doubled on the attributed string, single on canonical.
	attributedCount := countOccurrences(p.attributed, t)
	if attributedCount > canonicalCount {
		p.attributed = rest
		return true
	}

	return false
}

// StripLifetime strips whichever of the four lifetime qualifiers is
// present at pos, returning the lifetime token found (or "", false when
// none is present).
func (p *Parser) StripLifetime(pos Position) (Token, bool) {
	for _, t := range lifetimeTokens {
		if p.Strip(pos, t) {
			return t, true
		}
	}
	return "", false
}

// StripNullability strips whichever nullability qualifier (including
// _Nullable_result) is present at pos.
func (p *Parser) StripNullability(pos Position) (Token, bool) {
	if p.Strip(pos, TokenNullableResult) {
		return TokenNullableResult, true
	}
	for _, t := range nullabilityTokens {
		if p.Strip(pos, t) {
			return t, true
		}
	}
	return "", false
}

var arraySuffix = regexp.MustCompile(`\[(\d*)\]\s*$`)

// StripArray removes a trailing "[N]" or incomplete "[]" suffix from
// both spellings in lockstep — the array dimension is structural, not
// an attribute, and appears identically on both the attributed and
// canonical text, so it never participates in the (b.i)/(b.ii)
// divergence rule the way a qualifier token does. It returns the
// parsed length (0 for incomplete arrays) and whether a match was
// found.
func (p *Parser) StripArray() (n int, incomplete bool, ok bool) {
	m := arraySuffix.FindStringSubmatchIndex(p.attributed)
	if m == nil {
		return 0, false, false
	}
	numStr := p.attributed[m[2]:m[3]]
	p.attributed = strings.TrimRight(p.attributed[:m[0]], " ")
	if cm := arraySuffix.FindStringIndex(p.canonical); cm != nil {
		p.canonical = strings.TrimRight(p.canonical[:cm[0]], " ")
	}
	if numStr == "" {
		return 0, true, true
	}
	var v int
	fmt.Sscanf(numStr, "%d", &v)
	return v, false, true
}

var blockOrFnPointer = regexp.MustCompile(`\(\s*[\^*]\s*[A-Za-z_][A-Za-z0-9_]*\s*\)\s*\(|\(\s*[\^*]\s*\)\s*\(`)

// StripBlockWrapper extracts the argument-list portion of a "T (^name)(args)"
// or "T (*name)(args)" spelling, returning the parenthesized argument
// text. It reports ok=false if the attributed spelling isn't shaped
// like a block or function pointer declarator.
func (p *Parser) StripBlockWrapper() (args string, ok bool) {
	loc := blockOrFnPointer.FindStringIndex(p.attributed)
	if loc == nil {
		return "", false
	}
	depth := 0
	start := loc[1] - 1
	for i := start; i < len(p.attributed); i++ {
		switch p.attributed[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return p.attributed[start+1 : i], true
			}
		}
	}
	return "", false
}

// Close asserts the drop invariant (spec.md I4): the residual
// attributed spelling must equal the canonical spelling. A mismatch is
// a soft error, logged by the caller via Errors(), never fatal.
func (p *Parser) Close() error {
	remaining := strings.Join(strings.Fields(p.attributed), " ")
	expected := strings.Join(strings.Fields(p.canonical), " ")
	if remaining != expected {
		err := fmt.Errorf("attrparse: residual spelling %q does not match canonical %q", remaining, expected)
		p.errs = append(p.errs, err)
		return err
	}
	return nil
}
