// Package emojitrie implements a longest-match trie over emoji code-point
// sequences in which every interior U+FE0F (variation selector-16) is
// optional, per spec.md §4.1/§9 ("prefer a precompiled Aho-Corasick-style
// trie keyed on code points with FE0F as an optional edge").
package emojitrie

const fe0f = rune(0xFE0F)

type node struct {
	children map[rune]*node
	// fe0fOptional is true when, having reached this node, the next input
	// code point is allowed (but not required) to be FE0F before continuing
	// to match a child transition.
	fe0fOptional bool
	terminal     bool
	text         []rune // FE0F-stripped code points of the sequence ending here
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Trie holds the compiled emoji matcher.
type Trie struct {
	root *node
}

// Build compiles sequences (each may already contain interior FE0F) into a
// Trie matching the sequence with every interior FE0F optional.
func Build(sequences [][]rune) *Trie {
	root := newNode()
	for _, seq := range sequences {
		insert(root, seq)
	}
	return &Trie{root: root}
}

// insert adds one declared emoji sequence, marking the nodes after which an
// FE0F originally appeared as optional.
func insert(root *node, seq []rune) {
	stripped := make([]rune, 0, len(seq))
	// fe0fAfter[i] is true when the original sequence had FE0F immediately
	// after the i-th code point of the stripped sequence (fe0fAfter[0] means
	// FE0F is the very first code point, which does not occur in practice
	// but is handled for completeness).
	fe0fAfter := make([]bool, 0, len(seq)+1)
	fe0fAfter = append(fe0fAfter, false)
	for _, cp := range seq {
		if cp == fe0f {
			fe0fAfter[len(fe0fAfter)-1] = true
			continue
		}
		stripped = append(stripped, cp)
		fe0fAfter = append(fe0fAfter, false)
	}

	cur := root
	for i, cp := range stripped {
		if fe0fAfter[i] {
			cur.fe0fOptional = true
		}
		child, ok := cur.children[cp]
		if !ok {
			child = newNode()
			cur.children[cp] = child
		}
		cur = child
	}
	if fe0fAfter[len(stripped)] {
		cur.fe0fOptional = true
	}
	cur.terminal = true
	cur.text = stripped
}

// LongestMatch attempts to match the longest declared emoji sequence
// starting at cps[start:], treating every flagged FE0F position as
// optional. It returns the number of input code points consumed
// (consumed), the FE0F-stripped text of the matched sequence, and whether
// any match was found.
func (t *Trie) LongestMatch(cps []rune, start int) (consumed int, text []rune, ok bool) {
	cur := t.root
	pos := start
	best := -1
	var bestText []rune

	for {
		if cur.fe0fOptional && pos < len(cps) && cps[pos] == fe0f {
			pos++
			if cur.terminal {
				best = pos - start
				bestText = cur.text
			}
		}
		if pos >= len(cps) {
			break
		}
		child, has := cur.children[cps[pos]]
		if !has {
			break
		}
		pos++
		cur = child
		if cur.terminal {
			best = pos - start
			bestText = cur.text
		}
	}

	if best < 0 {
		return 0, nil, false
	}
	return best, bestText, true
}
