package vcp

import (
	"fmt"
	"strconv"
	"strings"
)

// Capabilities holds the parts of an MCCS capabilities string this tool
// cares about: the VCP feature table with per-feature value lists.
type Capabilities struct {
	Model    string
	Features map[byte][]Value
}

// InputSources returns the value list advertised for the input select
// feature, or nil when the monitor does not report one.
func (c *Capabilities) InputSources() []Value {
	return c.Features[InputSelect]
}

// ParseCapabilities parses an MCCS capabilities string such as
//
//	(prot(monitor)type(lcd)model(U2723QE)vcp(02 10 12 60(0F 11 1B) DF))
//
// Only the model and vcp groups are interpreted; unknown groups are
// skipped. Feature codes and values are hexadecimal per MCCS.
func ParseCapabilities(s string) (*Capabilities, error) {
	caps := &Capabilities{Features: make(map[byte][]Value)}

	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil, fmt.Errorf("empty capabilities string")
	}
	if s[0] == '(' && s[len(s)-1] == ')' {
		s = s[1 : len(s)-1]
	}

	for i := 0; i < len(s); {
		if isSpace(s[i]) {
			i++
			continue
		}
		name, rest := readToken(s[i:])
		i += len(name)
		if name == "" {
			// Stray parenthesis with no group name.
			if s[i] == '(' {
				_, n, err := readGroup(s[i:])
				if err != nil {
					return nil, err
				}
				i += n
			} else {
				i++
			}
			continue
		}
		if rest == "" || rest[0] != '(' {
			// Bare token outside any group, ignore.
			continue
		}
		body, n, err := readGroup(s[i:])
		if err != nil {
			return nil, err
		}
		i += n
		switch name {
		case "model":
			caps.Model = strings.TrimSpace(body)
		case "vcp":
			if err := parseVCPGroup(body, caps.Features); err != nil {
				return nil, err
			}
		}
	}
	return caps, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// readToken reads up to the next '(' , ')' or whitespace and returns the
// token plus the remainder of the input.
func readToken(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '(' || s[i] == ')' || isSpace(s[i]) {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// readGroup consumes a balanced parenthesized group starting at s[0] == '('
// and returns the group body and the number of bytes consumed.
func readGroup(s string) (string, int, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("unbalanced parentheses in capabilities string")
}

// parseVCPGroup parses the body of a vcp(...) group: hex feature codes,
// each optionally followed by a parenthesized list of hex values.
func parseVCPGroup(body string, features map[byte][]Value) error {
	for i := 0; i < len(body); {
		if isSpace(body[i]) {
			i++
			continue
		}
		tok, _ := readToken(body[i:])
		if tok == "" {
			return fmt.Errorf("unexpected %q in vcp group", body[i:])
		}
		i += len(tok)
		code, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return fmt.Errorf("bad vcp feature code %q: %w", tok, err)
		}
		features[byte(code)] = nil

		if i < len(body) && body[i] == '(' {
			valueBody, n, err := readGroup(body[i:])
			if err != nil {
				return err
			}
			i += n
			for _, v := range strings.Fields(valueBody) {
				raw, err := strconv.ParseUint(v, 16, 16)
				if err != nil {
					return fmt.Errorf("bad vcp value %q for feature %02X: %w", v, code, err)
				}
				features[byte(code)] = append(features[byte(code)], Value(raw))
			}
		}
	}
	return nil
}
