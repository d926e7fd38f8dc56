// Package devpreview picks the local dev-server port a storefront template
// preview runs on. It is a development aid only: tenant resolution never
// imports it.
package devpreview

import (
	"fmt"
	"strings"
)

// DefaultPort is the storefront hub dev server, used when no signal matches.
const DefaultPort = 3000

// Signals are the hints available to pick a preview target
type Signals struct {
	TemplateName string `form:"templateName" json:"templateName"`
	Category     string `form:"category" json:"category"`
	Industry     string `form:"industry" json:"industry"`
	Subdomain    string `form:"subdomain" json:"subdomain"`
}

type portRule struct {
	keywords []string
	port     int
}

// portRules is ordered: the first rule with a keyword contained in a signal wins.
var portRules = []portRule{
	{keywords: []string{"toy"}, port: 3004},
	{keywords: []string{"electronic", "tech"}, port: 3006},
	{keywords: []string{"food", "grocery"}, port: 3007},
	{keywords: []string{"footwear", "shoe"}, port: 3008},
	{keywords: []string{"fragrance", "perfume"}, port: 3009},
	{keywords: []string{"beauty", "cosmetic"}, port: 3010},
	{keywords: []string{"jewel"}, port: 3017},
	{keywords: []string{"fashion", "clothing", "apparel", "wear"}, port: 3005},
}

// Target is a resolved preview location
type Target struct {
	Port int    `json:"port"`
	URL  string `json:"url"`
}

// ResolvePort classifies signals in the order template name, category,
// industry, subdomain. The first signal that matches any rule decides.
func ResolvePort(s Signals) int {
	for _, signal := range []string{s.TemplateName, s.Category, s.Industry, s.Subdomain} {
		if port, ok := classify(signal); ok {
			return port
		}
	}
	return DefaultPort
}

func classify(signal string) (int, bool) {
	v := strings.ToLower(strings.TrimSpace(signal))
	if v == "" {
		return 0, false
	}
	for _, rule := range portRules {
		for _, kw := range rule.keywords {
			if strings.Contains(v, kw) {
				return rule.port, true
			}
		}
	}
	return 0, false
}

// URL builds http://{subdomain|preview}.localhost:{port}.
func URL(s Signals) string {
	host := strings.ToLower(strings.TrimSpace(s.Subdomain))
	if host == "" {
		host = "preview"
	}
	return fmt.Sprintf("http://%s.localhost:%d", host, ResolvePort(s))
}

// Resolve returns both the port and the URL for signals.
func Resolve(s Signals) Target {
	return Target{Port: ResolvePort(s), URL: URL(s)}
}
