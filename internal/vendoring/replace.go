package vendoring

import (
	"fmt"
	"regexp"
)

// ReplaceKey substitutes the region between `<!--{key}-->` and
// `<!--/{key}-->` markers with content, spanning lines. Markers for other
// keys are left untouched. The markers themselves are kept, so repeated
// substitution stays stable. Useful as a line transform target for files
// that embed generated sections, e.g. a README carrying a vendored
// version table.
func ReplaceKey(text, key, content string) string {
	quoted := regexp.QuoteMeta(key)
	re := regexp.MustCompile(fmt.Sprintf(`(?s)<!--%s-->.*?<!--/%s-->`, quoted, quoted))
	return re.ReplaceAllLiteralString(text,
		fmt.Sprintf("<!--%s-->\n%s\n<!--/%s-->", key, content, key))
}
