package fetch_test

import (
	"net/http"
	"testing"

	"github.com/n9te9/federation-gateway/fetch"
	"github.com/n9te9/federation-gateway/schema"
)

func TestApplyHeaderRulesForward(t *testing.T) {
	incoming := http.Header{"Authorization": []string{"Bearer abc"}}
	out := fetch.ApplyHeaderRules(incoming, []schema.HeaderRule{
		{Kind: schema.HeaderForward, Name: "Authorization"},
	})
	if out.Get("Authorization") != "Bearer abc" {
		t.Errorf("expected Authorization forwarded, got %q", out.Get("Authorization"))
	}
}

func TestApplyHeaderRulesInsertOverridesForwarded(t *testing.T) {
	incoming := http.Header{"X-Tenant": []string{"client-value"}}
	out := fetch.ApplyHeaderRules(incoming, []schema.HeaderRule{
		{Kind: schema.HeaderInsert, Name: "X-Tenant", Value: "gateway-value"},
	})
	if out.Get("X-Tenant") != "gateway-value" {
		t.Errorf("expected Insert to override forwarded value, got %q", out.Get("X-Tenant"))
	}
}

func TestApplyHeaderRulesRemove(t *testing.T) {
	incoming := http.Header{"X-Debug": []string{"1"}}
	out := fetch.ApplyHeaderRules(incoming, []schema.HeaderRule{
		{Kind: schema.HeaderRemove, Name: "X-Debug"},
	})
	if out.Get("X-Debug") != "" {
		t.Errorf("expected X-Debug removed, got %q", out.Get("X-Debug"))
	}
}

func TestApplyHeaderRulesRenameDuplicateKeepsOriginal(t *testing.T) {
	incoming := http.Header{"X-Request-Id": []string{"req-1"}}
	out := fetch.ApplyHeaderRules(incoming, []schema.HeaderRule{
		{Kind: schema.HeaderRenameDuplicate, Name: "X-Request-Id", Rename: "X-Correlation-Id"},
	})
	if out.Get("X-Request-Id") != "req-1" {
		t.Errorf("expected original header kept, got %q", out.Get("X-Request-Id"))
	}
	if out.Get("X-Correlation-Id") != "req-1" {
		t.Errorf("expected duplicate under new name, got %q", out.Get("X-Correlation-Id"))
	}
}

func TestApplyHeaderRulesDropsHopByHop(t *testing.T) {
	incoming := http.Header{"Connection": []string{"keep-alive"}, "Host": []string{"client.example.com"}}
	out := fetch.ApplyHeaderRules(incoming, nil)
	if out.Get("Connection") != "" || out.Get("Host") != "" {
		t.Errorf("expected hop-by-hop headers stripped, got %v", out)
	}
}

func TestApplyHeaderRulesCannotReintroduceHopByHop(t *testing.T) {
	incoming := http.Header{}
	out := fetch.ApplyHeaderRules(incoming, []schema.HeaderRule{
		{Kind: schema.HeaderInsert, Name: "Connection", Value: "close"},
	})
	if out.Get("Connection") != "" {
		t.Errorf("expected Insert unable to reintroduce a hop-by-hop header, got %q", out.Get("Connection"))
	}
}
