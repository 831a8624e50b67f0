package action

import (
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Placeholders replaced by the query in targets.
var placeholders = []string{"{query}", "%s"}

var interpreters = map[string][]string{
	".py":  {"python"},
	".pyw": {"pythonw"},
	".js":  {"node"},
	".ps1": {"powershell", "-ExecutionPolicy", "Bypass", "-File"},
	".bat": {"cmd", "/c"},
	".cmd": {"cmd", "/c"},
	".sh":  {"sh"},
	".rb":  {"ruby"},
	".pl":  {"perl"},
	".lua": {"lua"},
	".ahk": {"AutoHotkey"},
	".vbs": {"cscript", "//nologo"},
}

// Interpreter returns the argv prefix that runs a script with the given
// extension. Matching ignores case.
func Interpreter(ext string) ([]string, bool) {
	argv, ok := interpreters[strings.ToLower(ext)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), argv...), true
}

// HasPlaceholder reports whether target contains a query placeholder.
func HasPlaceholder(target string) bool {
	for _, p := range placeholders {
		if strings.Contains(target, p) {
			return true
		}
	}
	return false
}

func substitute(target, value string) string {
	for _, p := range placeholders {
		target = strings.ReplaceAll(target, p, value)
	}
	return target
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent percent-encodes s for use inside a URL component,
// leaving the characters a browser's encodeURIComponent leaves.
func EscapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// ExpandURL replaces every placeholder in target with the encoded query.
func ExpandURL(target, query string) string {
	return substitute(target, EscapeComponent(query))
}

// Invocation is a command ready to spawn.
type Invocation struct {
	Program string
	Args    []string
	Shell   bool   // Program and Args run Line through the OS shell
	Line    string // the command as a user would type it
}

func (inv Invocation) String() string { return inv.Line }

// BuildInvocation turns a command target into an Invocation. With a
// placeholder the query is substituted literally and the line runs
// through the shell. Without one a lone path runs directly, under its
// interpreter when the extension is known, and a line with arguments
// runs unmodified through the shell.
func BuildInvocation(target, query string) Invocation {
	target = strings.TrimSpace(target)
	if HasPlaceholder(target) {
		script, rest := splitFirstField(target)
		line := substitute(target, query)
		if argv, ok := Interpreter(filepath.Ext(script)); ok {
			line = quoteLine(argv, script) + substitute(rest, query)
		}
		return shellInvocation(line)
	}

	path := strings.Trim(target, `"`)
	if isFile(path) {
		return direct(path, target)
	}
	script, rest := splitFirstField(target)
	if strings.TrimSpace(rest) == "" {
		return direct(script, target)
	}
	if argv, ok := Interpreter(filepath.Ext(script)); ok {
		return shellInvocation(quoteLine(argv, script) + rest)
	}
	return shellInvocation(target)
}

// direct runs path without a shell, under its interpreter when the
// extension is known.
func direct(path, line string) Invocation {
	if argv, ok := Interpreter(filepath.Ext(path)); ok {
		return Invocation{
			Program: argv[0],
			Args:    append(argv[1:], path),
			Line:    quoteLine(argv, path),
		}
	}
	return Invocation{Program: path, Line: line}
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func quoteLine(argv []string, path string) string {
	return strings.Join(argv, " ") + ` "` + path + `"`
}

func shellInvocation(line string) Invocation {
	if runtime.GOOS == "windows" {
		return Invocation{Program: "cmd", Args: []string{"/C", line}, Shell: true, Line: line}
	}
	return Invocation{Program: "sh", Args: []string{"-c", line}, Shell: true, Line: line}
}

// splitFirstField splits a command line after its first field. A quoted
// first field is returned without quotes.
func splitFirstField(s string) (string, string) {
	if strings.HasPrefix(s, `"`) {
		if end := strings.Index(s[1:], `"`); end >= 0 {
			return s[1 : end+1], s[end+2:]
		}
		return strings.Trim(s, `"`), ""
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}
