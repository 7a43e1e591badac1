package executor

import (
	"path"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// RiskLevel represents the risk level of a command
type RiskLevel int

const (
	// Safe commands are read-only
	Safe RiskLevel = iota
	// NeedsConfirm commands may modify state
	NeedsConfirm
	// Dangerous commands are potentially destructive
	Dangerous
)

// String returns a short name for the level
func (r RiskLevel) String() string {
	switch r {
	case Safe:
		return "safe"
	case NeedsConfirm:
		return "needs-confirm"
	case Dangerous:
		return "dangerous"
	default:
		return "unknown"
	}
}

// Safe read-only commands.
// Note: curl and wget are intentionally NOT included here as they can
// exfiltrate data or download malicious content
var safeCommands = map[string]bool{
	"ls": true, "cat": true, "pwd": true, "echo": true, "head": true, "tail": true,
	"grep": true, "find": true, "which": true, "whoami": true, "date": true,
	"wc": true, "sort": true, "uniq": true, "diff": true, "env": true,
	"printenv": true, "df": true, "du": true, "ps": true, "top": true,
	"tree": true, "file": true, "stat": true, "basename": true, "dirname": true,
	"realpath": true, "ping": true, "traceroute": true, "nslookup": true, "dig": true,
}

// Read-only subcommands of tools that can also write
var safeSubcommands = map[string]map[string]bool{
	"git":     {"status": true, "log": true, "diff": true, "branch": true, "show": true, "remote": true},
	"npm":     {"list": true, "ls": true, "view": true, "info": true, "outdated": true},
	"pip":     {"list": true, "show": true, "freeze": true},
	"cargo":   {"tree": true, "search": true, "check": true},
	"go":      {"list": true, "version": true, "env": true},
	"docker":  {"ps": true, "images": true, "inspect": true, "logs": true},
	"kubectl": {"get": true, "describe": true, "logs": true},
}

// Commands that are dangerous whatever their arguments
var dangerousCommands = map[string]bool{
	"sudo": true, "su": true, "doas": true,
	"eval": true, "source": true, ".": true, "exec": true,
	"shutdown": true, "reboot": true, "halt": true, "poweroff": true,
	"fdisk": true, "parted": true, "wipefs": true, "shred": true,
}

// Interpreters that must not receive piped input
var shellInterpreters = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "dash": true, "ksh": true, "fish": true,
}

// ClassifyCommand determines the risk level of a shell command.
// Commands that do not parse are NeedsConfirm.
func ClassifyCommand(cmd string) RiskLevel {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return Dangerous
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(strings.NewReader(cmd), "")
	if err != nil {
		return NeedsConfirm
	}

	c := &classification{}
	syntax.Walk(prog, c.visit)
	return c.level
}

// classification accumulates the highest risk seen while walking
type classification struct {
	level RiskLevel
}

func (c *classification) raise(level RiskLevel) {
	if level > c.level {
		c.level = level
	}
}

func (c *classification) visit(node syntax.Node) bool {
	switch n := node.(type) {
	case *syntax.CallExpr:
		c.raise(classifyCall(n))
	case *syntax.BinaryCmd:
		if n.Op == syntax.Pipe || n.Op == syntax.PipeAll {
			c.raise(classifyPipeTarget(n.Y))
		}
	case *syntax.Redirect:
		c.raise(classifyRedirect(n))
	case *syntax.FuncDecl:
		c.raise(NeedsConfirm)
		if n.Name != nil && callsItself(n.Name.Value, n.Body) {
			// Fork bomb
			c.raise(Dangerous)
		}
	}
	return true
}

// wordText returns the static text of a word with quotes removed.
// A word that starts with a parameter expansion becomes "$"; any other
// dynamic word becomes "".
func wordText(w *syntax.Word) string {
	var sb strings.Builder
	for i, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for j, dp := range p.Parts {
				lit, ok := dp.(*syntax.Lit)
				if !ok {
					return paramMarker(dp, i == 0 && j == 0)
				}
				sb.WriteString(lit.Value)
			}
		default:
			return paramMarker(part, i == 0)
		}
	}
	return sb.String()
}

func paramMarker(part syntax.WordPart, first bool) string {
	if _, ok := part.(*syntax.ParamExp); ok && first {
		return "$"
	}
	return ""
}

func words(ws []*syntax.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = wordText(w)
	}
	return out
}

func commandName(call *syntax.CallExpr) string {
	if len(call.Args) == 0 {
		return ""
	}
	name := wordText(call.Args[0])
	if name == "" || name == "$" {
		return ""
	}
	return path.Base(name)
}

func classifyCall(call *syntax.CallExpr) RiskLevel {
	if len(call.Args) == 0 {
		// Bare assignment
		return NeedsConfirm
	}

	args := words(call.Args)
	name := commandName(call)
	if name == "" {
		// Dynamic command name
		return NeedsConfirm
	}

	if dangerousCommands[name] || strings.HasPrefix(name, "mkfs") {
		return Dangerous
	}

	switch name {
	case "rm":
		return classifyRemove(args[1:])
	case "dd":
		for _, a := range args[1:] {
			if strings.HasPrefix(a, "if=") || strings.HasPrefix(a, "of=/dev/") {
				return Dangerous
			}
		}
	case "chmod":
		for _, a := range args[1:] {
			if strings.Contains(a, "777") {
				return Dangerous
			}
		}
	case "chown":
		if hasFlag(args[1:], 'R') {
			return Dangerous
		}
	case "perl", "ruby":
		if hasFlag(args[1:], 'e') {
			return Dangerous
		}
	}
	if strings.HasPrefix(name, "python") && hasFlag(args[1:], 'c') {
		for _, a := range args[1:] {
			if strings.Contains(a, "exec") {
				return Dangerous
			}
		}
	}

	if safeCommands[name] {
		return Safe
	}
	if subs, ok := safeSubcommands[name]; ok && len(args) > 1 && subs[args[1]] {
		return Safe
	}

	return NeedsConfirm
}

// classifyRemove flags removal of absolute paths, and recursive removal of
// home or variable paths
func classifyRemove(args []string) RiskLevel {
	recursive := hasFlag(args, 'r') || hasFlag(args, 'R')
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			continue
		}
		if strings.HasPrefix(a, "/") {
			return Dangerous
		}
		if recursive && (strings.HasPrefix(a, "~") || a == "$" || a == "*") {
			return Dangerous
		}
	}
	return NeedsConfirm
}

// hasFlag reports whether a short flag appears alone or in a flag cluster
func hasFlag(args []string, flag byte) bool {
	for _, a := range args {
		if len(a) < 2 || a[0] != '-' || a[1] == '-' {
			continue
		}
		if strings.IndexByte(a[1:], flag) >= 0 {
			return true
		}
	}
	return false
}

// classifyPipeTarget flags piping into a shell or decoding base64 in a pipeline
func classifyPipeTarget(stmt *syntax.Stmt) RiskLevel {
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok {
		return Safe
	}
	name := commandName(call)
	if shellInterpreters[name] {
		return Dangerous
	}
	if name == "base64" {
		args := words(call.Args[1:])
		if hasFlag(args, 'd') {
			return Dangerous
		}
		for _, a := range args {
			if a == "--decode" {
				return Dangerous
			}
		}
	}
	return Safe
}

func classifyRedirect(r *syntax.Redirect) RiskLevel {
	switch r.Op {
	case syntax.RdrOut, syntax.AppOut, syntax.RdrAll, syntax.AppAll, syntax.ClbOut:
	default:
		return Safe
	}
	if r.Word == nil {
		return NeedsConfirm
	}
	target := r.Word.Lit()
	switch {
	case target == "/dev/null":
		return Safe
	case strings.HasPrefix(target, "/dev/sd"), strings.HasPrefix(target, "/dev/nvme"),
		strings.HasPrefix(target, "/etc/"):
		return Dangerous
	}
	return NeedsConfirm
}

func callsItself(name string, body *syntax.Stmt) bool {
	found := false
	syntax.Walk(body, func(node syntax.Node) bool {
		if call, ok := node.(*syntax.CallExpr); ok && commandName(call) == name {
			found = true
		}
		return !found
	})
	return found
}

// GetRiskDescription returns a human-readable description of the risk level
func GetRiskDescription(level RiskLevel) string {
	switch level {
	case Safe:
		return "Safe read-only command"
	case NeedsConfirm:
		return "Command may modify system state"
	case Dangerous:
		return "Potentially dangerous command"
	default:
		return "Unknown risk level"
	}
}
