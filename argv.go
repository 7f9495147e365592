package hypod

import (
	"fmt"
	"strings"
)

// ParseArgv converts command-line tokens of the form "key.sub=value" into a
// nested mapping suitable for New or Replace. Values are kept as strings;
// literal parsing happens during field assignment.
//
// Two rewrites keep dotted paths and bare tags composable:
//   - assigning through a key that currently holds a scalar turns the scalar
//     into a mapping {"_tag": scalar} before descending
//   - assigning a scalar onto a key that already holds a mapping stores the
//     scalar under the mapping's "_tag" key instead of replacing it
//
// So "optim=adam optim.lr=0.1" and "optim.lr=0.1 optim=adam" produce the same
// mapping {"optim": {"_tag": "adam", "lr": "0.1"}}.
func ParseArgv(tokens []string) (map[string]any, error) {
	out := make(map[string]any)
	for _, tok := range tokens {
		key, val, err := splitToken(tok)
		if err != nil {
			return nil, err
		}
		assignPath(out, strings.Split(key, "."), val)
	}
	return out, nil
}

// FromArgv parses tokens with ParseArgv and constructs an instance from the
// result.
func (s *Schema) FromArgv(tokens []string) (*Instance, error) {
	input, err := ParseArgv(tokens)
	if err != nil {
		return nil, err
	}
	return s.New(input)
}

// splitToken validates one token and splits it on the first "=". The key and
// value must both be non-empty and every dotted key segment must be a bare
// key.
func splitToken(tok string) (string, string, error) {
	eq := strings.Index(tok, "=")
	if eq <= 0 || eq == len(tok)-1 {
		return "", "", fmt.Errorf("%w: %q should look like foo.bar=baz", ErrArgvFormat, tok)
	}
	key, val := tok[:eq], tok[eq+1:]
	for _, seg := range strings.Split(key, ".") {
		if !isValidKeySegment(seg) {
			return "", "", fmt.Errorf("%w: %q has invalid key segment %q", ErrArgvFormat, tok, seg)
		}
	}
	return key, val, nil
}

func assignPath(base map[string]any, path []string, val string) {
	key := path[0]
	if len(path) > 1 {
		sub, ok := base[key].(map[string]any)
		if !ok {
			sub = make(map[string]any)
			if prev, exists := base[key]; exists {
				sub[TagKey] = prev
			}
			base[key] = sub
		}
		assignPath(sub, path[1:], val)
		return
	}
	if sub, ok := base[key].(map[string]any); ok {
		sub[TagKey] = val
		return
	}
	base[key] = val
}
