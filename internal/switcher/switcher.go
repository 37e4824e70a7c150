// Package switcher implements the core input switching logic: matching
// monitors against user tokens and resolving toggle targets over a
// discovery snapshot.
package switcher

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ddcswitch/internal/monitor"
	"ddcswitch/internal/vcp"
)

// setPattern splits "name=input" and "name=input1,input2" tokens.
// "a=" and "=a" intentionally do not match and fall back to list tokens.
var setPattern = regexp.MustCompile(`^([^=]+)=(.+)$`)

// Token is one parsed command line argument.
type Token struct {
	// Raw is the argument as the user typed it.
	Raw string

	// Selector matches monitors by index or name substring.
	Selector string

	// Specs holds the input source designators. Empty for list tokens,
	// one entry for a direct set, two or more for a cycle list.
	Specs []string
}

// ParseToken splits an argument into selector and designator list.
func ParseToken(arg string) Token {
	if matches := setPattern.FindStringSubmatch(arg); matches != nil {
		return Token{
			Raw:      arg,
			Selector: matches[1],
			Specs:    strings.Split(matches[2], ","),
		}
	}
	return Token{Raw: arg, Selector: arg}
}

// IsSet reports whether the token requests a mutation.
func (t Token) IsSet() bool { return len(t.Specs) > 0 }

// Select filters the snapshot by a selector token. Numeric selectors
// match the monitor index exactly; anything else matches the name as a
// case-insensitive substring. An empty selector matches every monitor.
func Select(monitors []monitor.Monitor, selector string) []*monitor.Monitor {
	if index, err := strconv.ParseUint(selector, 10, 31); err == nil {
		for i := range monitors {
			if monitors[i].Index == int(index) {
				return []*monitor.Monitor{&monitors[i]}
			}
		}
		return nil
	}

	var matched []*monitor.Monitor
	for i := range monitors {
		if selector == "" || monitors[i].MatchName(selector) {
			matched = append(matched, &monitors[i])
		}
	}
	return matched
}

// Anchor carries the cycle ordinal from the first cycle token of an
// invocation to all later ones, so that every monitor advances to the
// same relative position even when their current inputs disagree.
type Anchor struct {
	ordinal int
	set     bool
}

// Resolution pairs a matched monitor with the input source value to set.
type Resolution struct {
	Monitor *monitor.Monitor
	Target  vcp.Value
}

// Resolve computes the target value for every matched monitor.
//
// A single designator is a direct assignment. A cycle list advances from
// the first matched monitor's current input to the next entry (wrapping),
// or to the first entry when the current input is not in the list or no
// monitor matched; the resulting ordinal is stored in the anchor. Later
// cycle tokens reuse the anchor ordinal modulo their own list length.
func Resolve(tok Token, matched []*monitor.Monitor, names *vcp.Names, anchor *Anchor, debugf func(format string, args ...any)) ([]Resolution, error) {
	values := make([]vcp.Value, len(tok.Specs))
	for i, spec := range tok.Specs {
		value, err := names.Parse(spec)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}

	var target vcp.Value
	switch {
	case len(values) == 1:
		target = values[0]
	case anchor.set:
		target = values[anchor.ordinal%len(values)]
	default:
		ordinal := 0
		if len(matched) > 0 && matched[0].CurrentOK {
			if position := indexOf(values, matched[0].Current); position >= 0 {
				ordinal = (position + 1) % len(values)
			}
			if debugf != nil {
				debugf("Set = %d (because InputSource(%s) is %s)",
					ordinal, matched[0], matched[0].Current)
			}
		}
		anchor.ordinal = ordinal
		anchor.set = true
		target = values[ordinal]
	}

	resolutions := make([]Resolution, 0, len(matched))
	for _, m := range matched {
		resolutions = append(resolutions, Resolution{Monitor: m, Target: target})
	}
	return resolutions, nil
}

func indexOf(values []vcp.Value, value vcp.Value) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}

// Op distinguishes listing from mutation outcomes.
type Op int

const (
	// OpList reports a monitor matched by a list token.
	OpList Op = iota

	// OpSet reports an attempted input source change.
	OpSet
)

// Outcome is the per-monitor (or per-token, when Monitor is nil) result
// of processing one argument.
type Outcome struct {
	Token   string
	Op      Op
	Monitor *monitor.Monitor
	Target  vcp.Value
	Err     error
}

// Runner processes an invocation's tokens against a frozen snapshot.
type Runner struct {
	Names  *vcp.Names
	DryRun bool

	// Settle is slept after each successful write; DDC/CI devices need a
	// pause before accepting the next command.
	Settle time.Duration

	// Debugf receives diagnostic messages when set.
	Debugf func(format string, args ...any)
}

// Run processes all arguments in order and returns every outcome.
// Failures never abort remaining tokens or monitors.
func (r *Runner) Run(monitors []monitor.Monitor, args []string) []Outcome {
	var outcomes []Outcome
	var anchor Anchor

	for _, arg := range args {
		tok := ParseToken(arg)
		matched := Select(monitors, tok.Selector)

		if !tok.IsSet() {
			if len(matched) == 0 {
				outcomes = append(outcomes, Outcome{
					Token: tok.Raw,
					Op:    OpList,
					Err:   fmt.Errorf("no display monitors found for %q", tok.Selector),
				})
				continue
			}
			for _, m := range matched {
				outcomes = append(outcomes, Outcome{Token: tok.Raw, Op: OpList, Monitor: m})
			}
			continue
		}

		resolutions, err := Resolve(tok, matched, r.Names, &anchor, r.Debugf)
		if err != nil {
			outcomes = append(outcomes, Outcome{Token: tok.Raw, Op: OpSet, Err: err})
			// A bad designator and a no-match selector are independent
			// failures; report both.
			if len(matched) == 0 {
				outcomes = append(outcomes, Outcome{
					Token: tok.Raw,
					Op:    OpSet,
					Err:   fmt.Errorf("no display monitors found for %q", tok.Selector),
				})
			}
			continue
		}
		if len(matched) == 0 {
			outcomes = append(outcomes, Outcome{
				Token: tok.Raw,
				Op:    OpSet,
				Err:   fmt.Errorf("no display monitors found for %q", tok.Selector),
			})
			continue
		}

		for _, res := range resolutions {
			outcomes = append(outcomes, r.apply(tok.Raw, res))
		}
	}
	return outcomes
}

func (r *Runner) apply(token string, res Resolution) Outcome {
	outcome := Outcome{Token: token, Op: OpSet, Monitor: res.Monitor, Target: res.Target}

	suffix := ""
	if r.DryRun {
		suffix = " (dry-run)"
	}
	log.Printf("InputSource(%s) = %s%s", res.Monitor, res.Target, suffix)
	if r.DryRun {
		return outcome
	}

	if err := res.Monitor.Handle.SetVCPFeature(vcp.InputSelect, uint16(res.Target)); err != nil {
		outcome.Err = fmt.Errorf("set input source on %s: %w", res.Monitor, err)
		return outcome
	}
	if r.Settle > 0 {
		time.Sleep(r.Settle)
	}
	return outcome
}
