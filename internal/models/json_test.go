package models

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONRoundTripsArrayPayload(t *testing.T) {
	raw := []byte(`[{"item":"bearing","qty":500},{"item":"gear"}]`)

	var j JSON
	if err := json.Unmarshal(raw, &j); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}

	out, err := json.Marshal(j)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("round trip mismatch: got %s", out)
	}
}

func TestJSONAcceptsScalarAndObject(t *testing.T) {
	for _, raw := range []string{`"free-form note"`, `42`, `{"item":"plate"}`} {
		var j JSON
		if err := json.Unmarshal([]byte(raw), &j); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if string(j) != raw {
			t.Fatalf("payload %s stored as %s", raw, j)
		}
	}
}

func TestJSONScanArrayColumn(t *testing.T) {
	var j JSON
	if err := j.Scan([]byte(`["a","b"]`)); err != nil {
		t.Fatalf("scan array: %v", err)
	}
	if string(j) != `["a","b"]` {
		t.Fatalf("scanned value: %s", j)
	}

	v, err := j.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if string(v.([]byte)) != `["a","b"]` {
		t.Fatalf("driver value: %s", v)
	}
}

func TestJSONNullHandling(t *testing.T) {
	var j JSON
	if err := json.Unmarshal([]byte(`null`), &j); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if j != nil {
		t.Fatalf("expected nil after null, got %s", j)
	}

	v, err := j.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != nil {
		t.Fatalf("expected NULL driver value, got %v", v)
	}

	if err := j.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if j != nil {
		t.Fatalf("expected nil after scanning NULL, got %s", j)
	}
}
