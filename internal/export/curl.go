package export

import (
	"fmt"
	"strings"

	"github.com/sadopc/apitester/internal/core/request"
)

// AsCurl converts a request to a curl command string. Headers and body are
// rendered the way the dispatcher sends them.
func AsCurl(req request.Request) string {
	var parts []string
	parts = append(parts, "curl")

	if req.Method != request.MethodGet && req.Method != "" {
		parts = append(parts, "-X", string(req.Method))
	}

	hasContentType := false
	for _, h := range req.ActiveHeaders() {
		if strings.EqualFold(h.Key, "Content-Type") {
			hasContentType = true
		}
		parts = append(parts, "-H", shellQuote(fmt.Sprintf("%s: %s", h.Key, h.Value)))
	}

	if payload, _ := req.Payload(); payload != nil {
		if !hasContentType {
			parts = append(parts, "-H", shellQuote("Content-Type: application/json"))
		}
		parts = append(parts, "-d", shellQuote(string(payload)))
	}

	parts = append(parts, shellQuote(req.URL))

	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
