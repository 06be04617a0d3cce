package docx

import "github.com/microcosm-cc/bluemonday"

// outputPolicy keeps the markup the converter emits and strips anything else
// a crafted document could smuggle into a post body.
func outputPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	p.AllowAttrs("colspan").Matching(bluemonday.Integer).OnElements("td", "th")
	p.AllowAttrs("id").Matching(bluemonday.Paragraph).OnElements("a")
	p.RequireNoFollowOnLinks(false)
	return p
}
