package convert

import "github.com/microcosm-cc/bluemonday"

var sanitizePolicy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Sanitize strips injectable markup from converted HTML. Scripts, event
// handlers and unknown elements are removed; formatting tags survive.
func Sanitize(htmlText string) string {
	return sanitizePolicy.Sanitize(htmlText)
}
