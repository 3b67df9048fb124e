package detect

import "regexp"

// PatternDefinition is a named, weighted textual matcher. The category tag
// drives the relevance/expectation keyword test; the weight drives per-file
// confidence aggregation. Tables are static and never mutated at runtime.
type PatternDefinition struct {
	Name       string
	Expression *regexp.Regexp
	Category   string
	Weight     float64
}

// codePatterns covers script-like source code
var codePatterns = []PatternDefinition{
	{
		Name:       "error_handling",
		Expression: regexp.MustCompile(`try\s*\{|catch\s*\(|\.catch\(|throw\s+new\s+\w+|(?m)if\s+err\s*!=\s*nil`),
		Category:   "error handling exception",
		Weight:     1.0,
	},
	{
		Name:       "validation",
		Expression: regexp.MustCompile(`\bvalidate\w*\s*\(|\bcheck\w*\s*\(|\bassert\w*\s*\(|\bis(Valid|Empty|Nil)\b`),
		Category:   "validation input check",
		Weight:     0.9,
	},
	{
		Name:       "tests",
		Expression: regexp.MustCompile(`\b(describe|it|test|expect)\s*\(|func\s+Test\w+\s*\(`),
		Category:   "test tests testing coverage",
		Weight:     0.9,
	},
	{
		Name:       "async_code",
		Expression: regexp.MustCompile(`\basync\s+\w|\bawait\s+\w|new\s+Promise\s*\(|\.then\s*\(`),
		Category:   "async await promise concurrency",
		Weight:     0.8,
	},
	{
		Name:       "null_checks",
		Expression: regexp.MustCompile(`!==?\s*null\b|!==?\s*undefined\b|\?\.|\?\?`),
		Category:   "null undefined safety check",
		Weight:     0.7,
	},
	{
		Name:       "types",
		Expression: regexp.MustCompile(`:\s*(string|number|boolean|void)\b|\binterface\s+\w+|\btype\s+\w+\s*=`),
		Category:   "type types annotation typescript",
		Weight:     0.7,
	},
	{
		Name:       "logging",
		Expression: regexp.MustCompile(`console\.(log|warn|error|info)\s*\(|\blogger?\.\w+\s*\(`),
		Category:   "logging log statements",
		Weight:     0.6,
	},
	{
		Name:       "imports",
		Expression: regexp.MustCompile(`(?m)^\s*import\s+.+\bfrom\b|require\s*\(`),
		Category:   "import imports dependency module",
		Weight:     0.5,
	},
	{
		Name:       "functions",
		Expression: regexp.MustCompile(`\bfunction\s+\w+\s*\(|=>\s*\{|\bfunc\s+\w+\s*\(`),
		Category:   "function method implementation",
		Weight:     0.5,
	},
	{
		Name:       "comments",
		Expression: regexp.MustCompile(`(?m)^\s*//|/\*`),
		Category:   "comment comments documentation",
		Weight:     0.4,
	},
}

// stylesheetPatterns covers CSS and preprocessor styles
var stylesheetPatterns = []PatternDefinition{
	{
		Name:       "responsive",
		Expression: regexp.MustCompile(`@media[^{]+\{`),
		Category:   "responsive media breakpoint",
		Weight:     1.0,
	},
	{
		Name:       "flexbox",
		Expression: regexp.MustCompile(`display\s*:\s*(inline-)?flex\b|flex-(direction|wrap|grow)`),
		Category:   "flexbox flex layout",
		Weight:     0.8,
	},
	{
		Name:       "grid",
		Expression: regexp.MustCompile(`display\s*:\s*(inline-)?grid\b|grid-template`),
		Category:   "grid layout columns",
		Weight:     0.8,
	},
	{
		Name:       "animations",
		Expression: regexp.MustCompile(`@keyframes\s+[\w-]+|animation\s*:|transition\s*:`),
		Category:   "animation animations transition",
		Weight:     0.7,
	},
	{
		Name:       "variables",
		Expression: regexp.MustCompile(`--[\w-]+\s*:|var\(\s*--`),
		Category:   "variable variables theme property",
		Weight:     0.6,
	},
	{
		Name:       "colors",
		Expression: regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b|rgba?\(|hsla?\(`),
		Category:   "color colors theme styles",
		Weight:     0.5,
	},
	{
		Name:       "typography",
		Expression: regexp.MustCompile(`font-(family|size|weight)\s*:`),
		Category:   "font typography text",
		Weight:     0.5,
	},
	{
		Name:       "spacing",
		Expression: regexp.MustCompile(`(?m)\b(margin|padding)(-(top|right|bottom|left))?\s*:`),
		Category:   "spacing margin padding layout",
		Weight:     0.4,
	},
}

// markupPatterns covers HTML and template markup
var markupPatterns = []PatternDefinition{
	{
		Name:       "accessibility",
		Expression: regexp.MustCompile(`aria-[\w-]+\s*=|\balt\s*=|\brole\s*=`),
		Category:   "accessibility aria alt",
		Weight:     1.0,
	},
	{
		Name:       "semantic_elements",
		Expression: regexp.MustCompile(`<(header|nav|main|section|article|aside|footer)\b`),
		Category:   "semantic structure markup html",
		Weight:     0.8,
	},
	{
		Name:       "forms",
		Expression: regexp.MustCompile(`<form\b|<input\b|<button\b|<select\b|<textarea\b`),
		Category:   "form forms input button",
		Weight:     0.8,
	},
	{
		Name:       "meta_tags",
		Expression: regexp.MustCompile(`<meta\b|<title>`),
		Category:   "meta head title",
		Weight:     0.5,
	},
	{
		Name:       "links",
		Expression: regexp.MustCompile(`<a\s+[^>]*href\s*=`),
		Category:   "link links anchor navigation",
		Weight:     0.4,
	},
	{
		Name:       "images",
		Expression: regexp.MustCompile(`<img\b|<picture\b|<svg\b`),
		Category:   "image images media",
		Weight:     0.4,
	},
}
