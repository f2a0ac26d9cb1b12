package code_tools

import (
	"regexp"
	"strings"
)

// languagePatterns holds the regexes used to pull structure out of
// non-Go sources. Capture group 1 is the symbol name; the function
// pattern's optional group 2 is the parameter list.
type languagePatterns struct {
	class    *regexp.Regexp
	function *regexp.Regexp
}

var genericPatterns = map[string]languagePatterns{
	"python": {
		class:    regexp.MustCompile(`^\s*class\s+(\w+)`),
		function: regexp.MustCompile(`^\s*(?:async\s+)?def\s+(\w+)\s*\(([^)]*)\)`),
	},
	"javascript": {
		class:    regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?class\s+(\w+)`),
		function: regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*\(([^)]*)\)`),
	},
	"typescript": {
		class:    regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?(?:class|interface)\s+(\w+)`),
		function: regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*\(([^)]*)\)`),
	},
	"java": {
		class:    regexp.MustCompile(`^\s*(?:public\s+|private\s+|protected\s+)?(?:static\s+)?(?:final\s+)?(?:abstract\s+)?(?:class|interface|enum)\s+(\w+)`),
		function: regexp.MustCompile(`^\s*(?:public\s+|private\s+|protected\s+)?(?:static\s+)?(?:final\s+)?[\w<>\[\],\s]+\s+(\w+)\s*\(([^)]*)\)\s*(?:throws[\w,\s]*)?\{`),
	},
	"cpp": {
		class:    regexp.MustCompile(`^\s*(?:class|struct)\s+(\w+)`),
		function: regexp.MustCompile(`^\s*[\w:<>~&*\s]+\s(\w+)\s*\(([^)]*)\)\s*(?:const\s*)?\{`),
	},
	"ruby": {
		class:    regexp.MustCompile(`^\s*(?:class|module)\s+(\w+)`),
		function: regexp.MustCompile(`^\s*def\s+(?:self\.)?(\w+[?!=]?)\s*(?:\(([^)]*)\))?`),
	},
	"rust": {
		class:    regexp.MustCompile(`^\s*(?:pub\s+)?(?:struct|trait|enum)\s+(\w+)`),
		function: regexp.MustCompile(`^\s*(?:pub\s+)?(?:async\s+)?(?:unsafe\s+)?fn\s+(\w+)\s*(?:<[^>]*>)?\s*\(([^)]*)\)`),
	},
	"php": {
		class:    regexp.MustCompile(`^\s*(?:abstract\s+|final\s+)?(?:class|interface|trait)\s+(\w+)`),
		function: regexp.MustCompile(`^\s*(?:public\s+|private\s+|protected\s+)?(?:static\s+)?function\s+(\w+)\s*\(([^)]*)\)`),
	},
	"csharp": {
		class:    regexp.MustCompile(`^\s*(?:public\s+|private\s+|protected\s+|internal\s+)?(?:static\s+)?(?:sealed\s+|abstract\s+)?(?:partial\s+)?(?:class|interface|struct|record)\s+(\w+)`),
		function: regexp.MustCompile(`^\s*(?:public\s+|private\s+|protected\s+|internal\s+)?(?:static\s+)?(?:async\s+)?(?:virtual\s+|override\s+)?[\w<>\[\],\s]+\s+(\w+)\s*\(([^)]*)\)`),
	},
	"kotlin": {
		class:    regexp.MustCompile(`^\s*(?:open\s+|abstract\s+|data\s+|sealed\s+)?(?:class|interface|object)\s+(\w+)`),
		function: regexp.MustCompile(`^\s*(?:override\s+)?(?:suspend\s+)?fun\s+(?:<[^>]*>\s*)?(\w+)\s*\(([^)]*)\)`),
	},
}

// analyzeGenericSource extracts classes and functions line by line,
// nesting a function under the most recent class declared at a
// shallower indentation level.
func analyzeGenericSource(language, source string) []*symbol {
	patterns, ok := genericPatterns[language]
	if !ok {
		return nil
	}

	type openClass struct {
		sym    *symbol
		indent int
	}

	var top []*symbol
	var stack []openClass

	attach := func(s *symbol, indent int) {
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1].sym
			parent.Children = append(parent.Children, s)
		} else {
			top = append(top, s)
		}
	}

	for _, line := range strings.Split(source, "\n") {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		if m := patterns.class.FindStringSubmatch(line); m != nil {
			s := &symbol{Name: m[1], Kind: kindClass}
			attach(s, indent)
			stack = append(stack, openClass{sym: s, indent: indent})
			continue
		}
		if m := patterns.function.FindStringSubmatch(line); m != nil {
			s := &symbol{Name: m[1], Kind: kindFunction, Params: parseParamList(paramGroup(m))}
			attach(s, indent)
		}
	}
	return top
}

func paramGroup(m []string) string {
	if len(m) > 2 {
		return m[2]
	}
	return ""
}

// parseParamList reduces a raw parameter list to bare parameter names.
func parseParamList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// Strip default values and type annotations
		if idx := strings.IndexAny(part, "=:"); idx >= 0 {
			part = strings.TrimSpace(part[:idx])
		}
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		name := fields[len(fields)-1]
		name = strings.TrimLeft(name, "*&$")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
