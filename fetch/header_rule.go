package fetch

import (
	"net/http"
	"strings"

	"github.com/n9te9/federation-gateway/schema"
)

// hopByHopHeaders must never be forwarded to a subgraph regardless of
// a subgraph's HeaderRule list, per SPEC_FULL §4.4.2 (grounded on
// original_source's header_rule.rs reserved-header deny-list).
var hopByHopHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
	"host":                true,
	"content-length":      true,
}

// ApplyHeaderRules builds the outbound header set for one subgraph
// request from the incoming client request headers, applying rules
// in order per SPEC_FULL §4.4.2:
//
//   - Forward copies a named incoming header verbatim if present.
//   - Insert sets a static header value, overwriting any forwarded
//     value of the same name.
//   - Remove deletes a header regardless of how it got there.
//   - RenameDuplicate copies an existing header under a second name,
//     keeping the original.
//
// Hop-by-hop headers are dropped before rules run and cannot be
// reintroduced by Insert/RenameDuplicate; SPEC_FULL §4.4.2 treats the
// deny-list as absolute.
func ApplyHeaderRules(incoming http.Header, rules []schema.HeaderRule) http.Header {
	out := make(http.Header)
	for name, values := range incoming {
		if hopByHopHeaders[strings.ToLower(name)] {
			continue
		}
		out[name] = append([]string(nil), values...)
	}

	for _, rule := range rules {
		if hopByHopHeaders[strings.ToLower(rule.Name)] {
			continue
		}
		switch rule.Kind {
		case schema.HeaderForward:
			if v := incoming.Get(rule.Name); v != "" {
				out.Set(rule.Name, v)
			}
		case schema.HeaderInsert:
			out.Set(rule.Name, rule.Value)
		case schema.HeaderRemove:
			out.Del(rule.Name)
		case schema.HeaderRenameDuplicate:
			if hopByHopHeaders[strings.ToLower(rule.Rename)] {
				continue
			}
			if v := incoming.Get(rule.Name); v != "" {
				out.Set(rule.Rename, v)
			}
		}
	}

	return out
}
