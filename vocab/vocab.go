// Package vocab loads the retained-feature vocabulary.
//
// The vocabulary file holds one "index<TAB>token" line per feature, ranked by
// the external feature-selection stage. Tokens are case-folded, duplicates are
// skipped and loading stops once the cap is reached. Dense feature ids follow
// file order; the index column is informational only.
package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is returned for lines without a tab-separated token.
var ErrMalformed = errors.New("vocab: malformed line")

// Vocabulary maps tokens to dense feature ids 0..Len()-1.
type Vocabulary struct {
	ids     map[string]int32
	tokens  []string
	skipped int
}

// Load reads up to limit distinct tokens from r. A limit <= 0 loads all.
func Load(r io.Reader, limit int) (*Vocabulary, error) {
	v := &Vocabulary{ids: make(map[string]int32)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		_, token, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("%w: line %d", ErrMalformed, lineNo)
		}
		if tab := strings.IndexByte(token, '\t'); tab >= 0 {
			token = token[:tab]
		}
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			return nil, fmt.Errorf("%w: line %d has an empty token", ErrMalformed, lineNo)
		}

		if _, dup := v.ids[token]; dup {
			v.skipped++
			continue
		}
		v.ids[token] = int32(len(v.tokens))
		v.tokens = append(v.tokens, token)

		if limit > 0 && len(v.tokens) == limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("vocab: read: %w", err)
	}
	return v, nil
}

// FromTokens builds a vocabulary from tokens in order, applying the same
// case folding and duplicate handling as Load.
func FromTokens(tokens ...string) *Vocabulary {
	v := &Vocabulary{ids: make(map[string]int32, len(tokens))}
	for _, t := range tokens {
		t = strings.ToLower(t)
		if _, dup := v.ids[t]; dup {
			v.skipped++
			continue
		}
		v.ids[t] = int32(len(v.tokens))
		v.tokens = append(v.tokens, t)
	}
	return v
}

// ID returns the feature id of an already lowercased token.
func (v *Vocabulary) ID(token string) (int32, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// Token returns the token with feature id.
func (v *Vocabulary) Token(id int32) string { return v.tokens[id] }

// Len returns the feature count F.
func (v *Vocabulary) Len() int { return len(v.tokens) }

// Skipped returns the number of duplicate tokens ignored while loading.
func (v *Vocabulary) Skipped() int { return v.skipped }
