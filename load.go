package ensnorm

import (
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"ensnorm/internal/emojitrie"
)

// rawSpec mirrors the JSON document described in spec.md §6.
type rawSpec struct {
	Unicode  string            `json:"unicode"`
	Ignored  []rune            `json:"ignored"`
	Mapped   [][]json.RawMessage `json:"mapped"`
	CM       []rune            `json:"cm"`
	Emoji    [][]rune          `json:"emoji"`
	NFCCheck []rune            `json:"nfc_check"`
	Fenced   [][]json.RawMessage `json:"fenced"`
	Groups   []map[string]json.RawMessage `json:"groups"`
	WholeMap map[string]json.RawMessage `json:"whole_map"`
	NSM      []rune            `json:"nsm"`
	NSMMax   int               `json:"nsm_max"`
}

// Load parses a spec.json document (spec.md §6) into a frozen Spec.
func Load(data []byte) (*Spec, error) {
	var raw rawSpec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ensnorm: parse spec: %w", err)
	}

	groups, err := buildGroups(raw.Groups)
	if err != nil {
		return nil, err
	}

	mapped, err := buildMapped(raw.Mapped)
	if err != nil {
		return nil, err
	}

	fenced, err := buildFenced(raw.Fenced)
	if err != nil {
		return nil, err
	}

	wholeMap, err := buildWholeMap(raw.WholeMap, groups)
	if err != nil {
		return nil, err
	}

	cm := toSet(raw.CM)
	delete(cm, cpFE0F) // invariant: CP_FE0F ∉ cm (spec.md §3)

	valid := computeValid(groups)

	emojiFE0FOf := make(map[string][]rune, len(raw.Emoji))
	for _, seq := range raw.Emoji {
		stripped := stripFE0F(seq)
		emojiFE0FOf[string(stripped)] = seq
	}

	s := &Spec{
		UnicodeVersion: raw.Unicode,
		Valid:          valid,
		Ignored:        toSet(raw.Ignored),
		Mapped:         mapped,
		CM:             cm,
		NSM:            toSet(raw.NSM),
		NSMMax:         raw.NSMMax,
		NFCCheck:       toSet(raw.NFCCheck),
		Fenced:         fenced,
		Groups:         groups,
		wholeMap:       wholeMap,
		Emoji:          raw.Emoji,
		emojiFE0FOf:    emojiFE0FOf,
		trie:           emojitrie.Build(raw.Emoji),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func toSet(cps []rune) map[rune]bool {
	set := make(map[rune]bool, len(cps))
	for _, cp := range cps {
		set[cp] = true
	}
	return set
}

func stripFE0F(cps []rune) []rune {
	out := make([]rune, 0, len(cps))
	for _, cp := range cps {
		if cp != cpFE0F {
			out = append(out, cp)
		}
	}
	return out
}

func buildGroups(raw []map[string]json.RawMessage) ([]Group, error) {
	groups := make([]Group, 0, len(raw))
	for _, g := range raw {
		var name string
		if err := json.Unmarshal(g["name"], &name); err != nil {
			return nil, fmt.Errorf("ensnorm: group name: %w", err)
		}
		var primary, secondary []rune
		if b, ok := g["primary"]; ok {
			if err := json.Unmarshal(b, &primary); err != nil {
				return nil, fmt.Errorf("ensnorm: group %q primary: %w", name, err)
			}
		}
		if b, ok := g["secondary"]; ok {
			if err := json.Unmarshal(b, &secondary); err != nil {
				return nil, fmt.Errorf("ensnorm: group %q secondary: %w", name, err)
			}
		}
		_, hasCM := g["cm"]

		p := toSet(primary)
		q := toSet(secondary)
		v := make(map[rune]bool, len(p)+len(q))
		for cp := range p {
			v[cp] = true
		}
		for cp := range q {
			v[cp] = true
		}
		groups = append(groups, Group{
			Name:    name,
			P:       p,
			Q:       q,
			V:       v,
			CMCheck: !hasCM,
		})
	}
	return groups, nil
}

func buildMapped(raw [][]json.RawMessage) (map[rune][]rune, error) {
	out := make(map[rune][]rune, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("ensnorm: mapped entry must have 2 elements, got %d", len(pair))
		}
		var src rune
		var dst []rune
		if err := json.Unmarshal(pair[0], &src); err != nil {
			return nil, fmt.Errorf("ensnorm: mapped src: %w", err)
		}
		if err := json.Unmarshal(pair[1], &dst); err != nil {
			return nil, fmt.Errorf("ensnorm: mapped dst: %w", err)
		}
		out[src] = dst
	}
	return out, nil
}

func buildFenced(raw [][]json.RawMessage) (map[rune]string, error) {
	out := make(map[rune]string, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("ensnorm: fenced entry must have 2 elements, got %d", len(pair))
		}
		var cp rune
		var label string
		if err := json.Unmarshal(pair[0], &cp); err != nil {
			return nil, fmt.Errorf("ensnorm: fenced cp: %w", err)
		}
		if err := json.Unmarshal(pair[1], &label); err != nil {
			return nil, fmt.Errorf("ensnorm: fenced label: %w", err)
		}
		out[cp] = label
	}
	return out, nil
}

func findGroupIndex(groups []Group, name string) int {
	for i, g := range groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

func buildWholeMap(raw map[string]json.RawMessage, groups []Group) (map[rune]*wholeEntry, error) {
	out := make(map[rune]*wholeEntry, len(raw))
	for key, val := range raw {
		var cp rune
		if err := json.Unmarshal([]byte(key), &cp); err != nil {
			return nil, fmt.Errorf("ensnorm: whole_map key %q: %w", key, err)
		}

		var scalar float64
		if err := json.Unmarshal(val, &scalar); err == nil {
			out[cp] = &wholeEntry{ignore: true}
			continue
		}

		var obj struct {
			M map[string][]string `json:"M"`
		}
		if err := json.Unmarshal(val, &obj); err != nil {
			return nil, fmt.Errorf("ensnorm: whole_map entry for %q: %w", key, err)
		}
		makerOf := make(map[rune][]int, len(obj.M))
		for mk, names := range obj.M {
			var mcp rune
			if err := json.Unmarshal([]byte(mk), &mcp); err != nil {
				return nil, fmt.Errorf("ensnorm: whole_map maker key %q: %w", mk, err)
			}
			ids := make([]int, 0, len(names))
			for _, name := range names {
				id := findGroupIndex(groups, name)
				if id < 0 {
					return nil, fmt.Errorf("ensnorm: whole_map references unknown group %q", name)
				}
				ids = append(ids, id)
			}
			sort.Ints(ids)
			makerOf[mcp] = ids
		}
		out[cp] = &wholeEntry{makerOf: makerOf}
	}
	return out, nil
}

// computeValid unions every group's V set, then folds in the NFD
// decomposition of each resulting code point (spec.md §3).
func computeValid(groups []Group) map[rune]bool {
	valid := make(map[rune]bool)
	for _, g := range groups {
		for cp := range g.V {
			valid[cp] = true
		}
	}
	base := make([]rune, 0, len(valid))
	for cp := range valid {
		base = append(base, cp)
	}
	decomposed := []rune(norm.NFD.String(string(base)))
	for _, cp := range decomposed {
		valid[cp] = true
	}
	return valid
}

// validate checks the invariants in spec.md §3.
func (s *Spec) validate() error {
	for cp := range s.Valid {
		if s.Ignored[cp] {
			return fmt.Errorf("ensnorm: invariant violated: %U is both valid and ignored", cp)
		}
	}
	if s.CM[cpFE0F] {
		return fmt.Errorf("ensnorm: invariant violated: FE0F must not be a combining mark")
	}
	for _, seq := range s.Emoji {
		if len(seq) == 0 {
			return fmt.Errorf("ensnorm: invariant violated: empty emoji sequence")
		}
	}
	return nil
}
