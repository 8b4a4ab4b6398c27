package model

import "regexp"

// The three URL-like shapes recognized in a body: email addresses, file
// paths, and web addresses. The web shape tolerates one level of literal
// parens and refuses trailing punctuation so "see http://x.org." keeps
// its full stop out of the link.
const (
	emailExpr = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,4}`
	pathExpr  = `\.{0,2}/(?:\\ |[^\s])+`
	webExpr   = "(?:[a-z][\\w-]+:(?:/{1,3}|[a-z0-9%.])|www\\d{0,3}[.])" +
		"(?:[^\\s()<>]+|\\([^\\s()<>]+\\))+" +
		"(?:\\([^\\s()<>]+\\)|[^`!()\\[\\]{};:'\".,<>?«»“”‘’\\s])"
)

var (
	linkScan  = regexp.MustCompile(`(?i)(?:^|\s)(` + emailExpr + `|` + pathExpr + `|` + webExpr + `)`)
	linkExact = regexp.MustCompile(`(?i)^(?:` + emailExpr + `|` + pathExpr + `|` + webExpr + `)$`)
)

// scanLinks returns every link in the body, in order of appearance. Links
// are only recognized at the start of the body or after whitespace.
func scanLinks(body string) []string {
	var links []string
	for _, m := range linkScan.FindAllStringSubmatchIndex(body, -1) {
		links = append(links, body[m[2]:m[3]])
	}
	return links
}

// IsLink reports whether s is exactly one link with nothing around it.
func IsLink(s string) bool {
	return linkExact.MatchString(s)
}
