package executor

import (
	"regexp"
	"strings"
)

// RuleResult is the outcome of matching a command against user rules
type RuleResult int

const (
	// NoMatch means no rule applies and the built-in classifier decides
	NoMatch RuleResult = iota
	// Trusted means a trust rule matched
	Trusted
	// Flagged means a warn rule matched
	Flagged
)

// RuleSet holds user patterns from the config file. Warn rules take
// precedence over trust rules.
//
// Patterns support:
//   - Exact match: "ls -la"
//   - Colon form: "git:*" matches "git" and "git <anything>", "git:push" matches "git push ..."
//   - Glob wildcard: "kubectl delete *"
//   - Prefix: "terraform" matches "terraform apply"
type RuleSet struct {
	Trust []string
	Warn  []string
}

// NewRuleSet creates a rule set, dropping blank patterns
func NewRuleSet(trust, warn []string) RuleSet {
	return RuleSet{Trust: compact(trust), Warn: compact(warn)}
}

// Empty reports whether the set has no rules
func (rs RuleSet) Empty() bool {
	return len(rs.Trust) == 0 && len(rs.Warn) == 0
}

// Check matches command against the rules
func (rs RuleSet) Check(command string) RuleResult {
	if MatchAny(command, rs.Warn) {
		return Flagged
	}
	if MatchAny(command, rs.Trust) {
		return Trusted
	}
	return NoMatch
}

// Classifier layers the rules over base. A warn match is Dangerous, a
// trust match is Safe, anything else is left to base.
func (rs RuleSet) Classifier(base Classifier) Classifier {
	if rs.Empty() {
		return base
	}
	return func(command string) RiskLevel {
		switch rs.Check(command) {
		case Flagged:
			return Dangerous
		case Trusted:
			return Safe
		}
		return base(command)
	}
}

// MatchAny reports whether command matches one of patterns
func MatchAny(command string, patterns []string) bool {
	for _, p := range patterns {
		if MatchPattern(command, p) {
			return true
		}
	}
	return false
}

// MatchPattern checks command against a single pattern
func MatchPattern(command, pattern string) bool {
	command = strings.TrimSpace(command)
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}

	if pattern == command {
		return true
	}

	if strings.Contains(pattern, ":") {
		return matchColon(command, pattern)
	}

	if strings.Contains(pattern, "*") {
		return matchGlob(command, pattern)
	}

	return strings.HasPrefix(command, pattern+" ")
}

// matchColon handles "git:*" and "git:push"
func matchColon(command, pattern string) bool {
	prefix, suffix, _ := strings.Cut(pattern, ":")

	if !strings.HasPrefix(command, prefix+" ") && command != prefix {
		return false
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(command, prefix), " ")

	if suffix == "*" {
		return true
	}
	if strings.Contains(suffix, "*") {
		return matchGlob(rest, suffix)
	}

	fields := strings.Fields(rest)
	if len(fields) > 0 && fields[0] == suffix {
		return true
	}
	return rest == suffix
}

// matchGlob anchors pattern and treats * as any run of characters
func matchGlob(command, pattern string) bool {
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, `.*`) + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(command)
}

func compact(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
