package printer

import (
	"regexp"
	"strings"
)

var (
	cStyleComments = regexp.MustCompile(
		`(?ms)//.*?$|/\*.*?\*/|'(?:\\.|[^\\'])*'|"(?:\\.|[^\\"])*"`)
	pythonStyleComments = regexp.MustCompile(
		`(?ms)#.*?$|'''.*?'''|""".*?"""|'(?:\\.|[^\\'])*'|"(?:\\.|[^\\"])*"`)
	rStyleComments = regexp.MustCompile(
		`(?m)#.*?$|'(?:\\.|[^\\'\n])*'|"(?:\\.|[^\\"\n])*"`)
	sqlStyleComments = regexp.MustCompile(
		`(?ms)--.*?$|/\*.*?\*/|'(?:''|[^'])*'`)
	matlabStyleComments = regexp.MustCompile(
		`(?ms)^\s*%\{.*?^\s*%\}|%.*?$|"[^"\n]*"`)
	htmlStyleComments = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// commentStyles maps a language to its comment stripper.
var commentStyles = map[string]func(string) string{}

func init() {
	register := func(fn func(string) string, languages ...string) {
		for _, l := range languages {
			commentStyles[l] = fn
		}
	}
	register(stripCStyle,
		"c", "cpp", "java", "javascript", "csharp", "php", "go", "rust",
		"kotlin", "swift", "scala", "dart", "typescript", "typescriptreact",
		"react", "groovy", "solidity", "apex", "zig")
	register(stripPythonStyle, "python", "ruby", "perl")
	register(stripShellStyle, "bash", "powershell", "shell", "zsh")
	register(stripHTMLStyle, "html", "xml")
	register(stripSQLStyle, "sql", "plsql", "tsql")
	register(stripMatlabStyle, "matlab", "octave")
	register(stripRStyle, "r")
}

// StripComments removes comments from code written in language. Languages
// without a known comment syntax are returned unchanged. String literals
// are kept intact.
func StripComments(code, language string) string {
	fn, ok := commentStyles[strings.ToLower(language)]
	if !ok {
		return code
	}
	return fn(code)
}

// keepStrings replaces every match of re that does not start with one of
// the quote characters.
func keepStrings(re *regexp.Regexp, code, quotes string) string {
	return re.ReplaceAllStringFunc(code, func(m string) string {
		if strings.ContainsAny(m[:1], quotes) {
			return m
		}
		return ""
	})
}

func stripCStyle(code string) string {
	return keepStrings(cStyleComments, code, `'"`)
}

func stripPythonStyle(code string) string {
	return pythonStyleComments.ReplaceAllStringFunc(code, func(m string) string {
		if strings.HasPrefix(m, "#") || strings.HasPrefix(m, "'''") || strings.HasPrefix(m, `"""`) {
			return ""
		}
		return m
	})
}

func stripRStyle(code string) string {
	return keepStrings(rStyleComments, code, `'"`)
}

func stripSQLStyle(code string) string {
	return keepStrings(sqlStyleComments, code, `'`)
}

func stripMatlabStyle(code string) string {
	return keepStrings(matlabStyleComments, code, `"`)
}

func stripHTMLStyle(code string) string {
	return htmlStyleComments.ReplaceAllString(code, "")
}

// stripShellStyle drops '#' comments and ": '...'" blocks line by line.
// Shebang lines are kept.
func stripShellStyle(code string) string {
	var out []string
	inBlock := false
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#!"):
			out = append(out, line)
		case inBlock:
			if strings.HasSuffix(trimmed, "'") {
				inBlock = false
			}
		case strings.HasPrefix(trimmed, ": '"):
			inBlock = !(len(trimmed) > 3 && strings.HasSuffix(trimmed, "'"))
		case strings.Contains(line, "#"):
			line = line[:strings.Index(line, "#")]
			if strings.TrimSpace(line) != "" {
				out = append(out, line)
			}
		default:
			out = append(out, line)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
