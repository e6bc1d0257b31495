package response_test

import (
	"testing"

	"github.com/n9te9/federation-gateway/response"
)

func TestMergeUpstreamErrorPrependsPathAndPrefixesExtensions(t *testing.T) {
	merged := response.MergeUpstreamError(
		[]any{"user"},
		"not found",
		[]any{"name"},
		map[string]any{"code": "NOT_FOUND"},
	)

	if len(merged.Path) != 2 || merged.Path[0] != "user" || merged.Path[1] != "name" {
		t.Errorf("expected path [user name], got %v", merged.Path)
	}
	if merged.Extensions["upstream_code"] != "NOT_FOUND" {
		t.Errorf("expected upstream_code extension, got %v", merged.Extensions)
	}
	if _, clashes := merged.Extensions["code"]; clashes {
		t.Errorf("expected raw \"code\" key to be renamed, not duplicated")
	}
}

func TestMergeUpstreamErrorNoExtensions(t *testing.T) {
	merged := response.MergeUpstreamError(nil, "boom", nil, nil)
	if merged.Extensions != nil {
		t.Errorf("expected nil extensions when none are given, got %v", merged.Extensions)
	}
}
