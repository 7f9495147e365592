package hypod

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLiteral parses a restricted literal syntax into a value: booleans
// (true, false), null or nil, integers (decimal, 0x, 0o, 0b, with
// underscores), floats, single- or double-quoted strings, lists
// [v, v, ...] and mappings {key: v, ...} with bare or quoted keys. The
// grammar never evaluates code; bare words and trailing input are errors.
func ParseLiteral(s string) (any, error) {
	p := &literalParser{src: s}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing input %q", p.src[p.pos:])
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("invalid literal %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *literalParser) value() (any, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}
	switch {
	case c == '[':
		return p.list()
	case c == '{':
		return p.mapping()
	case c == '\'' || c == '"':
		return p.quoted()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.word()
	}
}

func (p *literalParser) word() (any, error) {
	start := p.pos
	for p.pos < len(p.src) && isWordByte(p.src[p.pos]) {
		p.pos++
	}
	switch word := p.src[start:p.pos]; word {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "nil":
		return nil, nil
	case "":
		return nil, p.errorf("unexpected character %q", string(p.src[p.pos]))
	default:
		return nil, p.errorf("bare word %q is not a literal", word)
	}
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	if c, _ := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for p.pos < len(p.src) && isNumberByte(p.src[p.pos]) {
		p.pos++
	}
	tok := p.src[start:p.pos]
	if i, err := strconv.ParseInt(tok, 0, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	return nil, p.errorf("malformed number %q", tok)
}

func (p *literalParser) quoted() (any, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return nil, p.errorf("unterminated escape")
			}
			switch esc := p.src[p.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			case '\\', '\'', '"':
				b.WriteByte(esc)
			default:
				return nil, p.errorf("unsupported escape \\%c", esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return nil, p.errorf("unterminated string")
}

func (p *literalParser) list() (any, error) {
	p.pos++
	out := []any{}
	p.skipSpace()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return out, nil
	}
	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated list")
		}
		switch c {
		case ',':
			p.pos++
			p.skipSpace()
			if c2, ok := p.peek(); ok && c2 == ']' {
				p.pos++
				return out, nil
			}
		case ']':
			p.pos++
			return out, nil
		default:
			return nil, p.errorf("expected ',' or ']' in list")
		}
	}
}

func (p *literalParser) mapping() (any, error) {
	p.pos++
	out := map[string]any{}
	p.skipSpace()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return out, nil
	}
	for {
		key, err := p.mapKey()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if c, ok := p.peek(); !ok || c != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out[key] = v
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated mapping")
		}
		switch c {
		case ',':
			p.pos++
			p.skipSpace()
			if c2, ok := p.peek(); ok && c2 == '}' {
				p.pos++
				return out, nil
			}
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, p.errorf("expected ',' or '}' in mapping")
		}
	}
}

func (p *literalParser) mapKey() (string, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return "", p.errorf("unterminated mapping")
	}
	if c == '\'' || c == '"' {
		v, err := p.quoted()
		if err != nil {
			return "", err
		}
		return v.(string), nil
	}
	start := p.pos
	for p.pos < len(p.src) && isKeyByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected mapping key")
	}
	return p.src[start:p.pos], nil
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isNumberByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F':
		return true // hex digits, also covers b/e for prefixes and exponents
	case c == 'x' || c == 'X' || c == 'o' || c == 'O' || c == 'p' || c == 'P':
		return true
	case c == '.' || c == '_' || c == '+' || c == '-':
		return true
	default:
		return false
	}
}

func isKeyByte(c byte) bool {
	return isWordByte(c) || c == '-'
}
