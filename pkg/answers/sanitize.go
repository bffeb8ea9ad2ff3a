package answers

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips all markup from user-entered free text before it is
// stored. Answers end up in shared spreadsheets and terminal output, neither
// of which should carry HTML.
func sanitizeText(input string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy.Sanitize(input)
}
