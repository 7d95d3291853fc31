// Package brands pulls example brand names out of treatment text and links them
// to a drug-information search page.
package brands

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultSearchURL is the drug-information search page used when none is configured
const DefaultSearchURL = "https://www.drugs.com/search.php"

var exampleBrands = regexp.MustCompile(`\(e\.g\., ([^)]+)\)`)

// Link is one brand with its outbound search URL
type Link struct {
	Brand string `json:"brand"`
	URL   string `json:"url"`
}

// Extract returns the brands listed in the first "(e.g., A, B, ...)" annotation of
// text, in order. Text without an annotation yields an empty slice.
func Extract(text string) []string {
	match := exampleBrands.FindStringSubmatch(text)
	if match == nil {
		return []string{}
	}

	parts := strings.Split(match[1], ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if brand := strings.TrimSpace(p); brand != "" {
			out = append(out, brand)
		}
	}
	return out
}

// SearchURL builds base?searchterm=<brand>, keeping any query already on base
func SearchURL(base, brand string) string {
	if base == "" {
		base = DefaultSearchURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return DefaultSearchURL + "?searchterm=" + url.QueryEscape(brand)
	}
	q := u.Query()
	q.Set("searchterm", brand)
	u.RawQuery = q.Encode()
	return u.String()
}

// Links extracts the brands from text and pairs each with its search URL
func Links(base, text string) []Link {
	names := Extract(text)
	out := make([]Link, 0, len(names))
	for _, name := range names {
		out = append(out, Link{Brand: name, URL: SearchURL(base, name)})
	}
	return out
}
