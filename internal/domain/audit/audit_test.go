package audit

import (
	"strings"
	"testing"
)

func TestBuildQueryNumbersPlaceholders(t *testing.T) {
	query, args := buildQuery("SELECT COUNT(1)", Filter{Action: "job.confirm", EntityID: "j1"})
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if !strings.Contains(query, "action = $1") || !strings.Contains(query, "entity_id = $2") {
		t.Fatalf("unexpected query: %s", query)
	}
	if strings.Contains(query, "entity_type") {
		t.Fatalf("did not expect entity_type filter: %s", query)
	}
}

func TestMarshalOptionalNil(t *testing.T) {
	payload, err := marshalOptional(nil)
	if err != nil || payload != nil {
		t.Fatalf("expected nil payload, got %s (%v)", payload, err)
	}
}
