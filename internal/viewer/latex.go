package viewer

import "regexp"

// fencedMathRe matches a ```tex, ```latex or bare ``` fence whose only
// content is a $$...$$ display-math block.
var fencedMathRe = regexp.MustCompile("```(?:tex|latex)?\\n(\\$\\$[\\s\\S]*?\\$\\$)\\n```")

// ExtractLatex strips code fences around display math so MathJax can
// typeset it. Every matching fence is rewritten; other fences are left as is.
func ExtractLatex(content string) string {
	return fencedMathRe.ReplaceAllString(content, "$1")
}
