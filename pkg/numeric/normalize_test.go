package numeric

import (
	"encoding/json"
	"strconv"
	"testing"
)

func TestNormalize_Floats(t *testing.T) {
	cases := []float64{0, 1, -1, 0.1, 2.5, 1.0 / 3.0, 1e21, -4.9e-324, 12345.6789}

	for _, f := range cases {
		got := Normalize(f)
		num, ok := got.(json.Number)
		if !ok {
			t.Fatalf("Normalize(%v) returned %T, want json.Number", f, got)
		}

		want := strconv.FormatFloat(f, 'g', -1, 64)
		if string(num) != want {
			t.Errorf("Normalize(%v) = %q, want %q", f, num, want)
		}

		// Shortest round-trip: parsing the decimal string must recover
		// the exact same float.
		back, err := strconv.ParseFloat(string(num), 64)
		if err != nil {
			t.Fatalf("ParseFloat(%q) failed: %v", num, err)
		}
		if back != f {
			t.Errorf("round trip of %v via %q gave %v", f, num, back)
		}
	}
}

func TestNormalize_Float32(t *testing.T) {
	got := Normalize(float32(0.1))
	num, ok := got.(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", got)
	}
	if string(num) != "0.1" {
		t.Errorf("float32 0.1 normalized to %q, want \"0.1\"", num)
	}
}

func TestNormalize_PreservesShape(t *testing.T) {
	in := map[string]any{
		"operation": "division",
		"operand_a": 10,
		"operand_b": 4,
		"result":    2.5,
		"nested": map[string]any{
			"confidence": 0.875,
			"labels":     []any{"graphene", 0.25, true},
		},
		"empty": []any{},
	}

	out := Normalize(in).(map[string]any)

	if len(out) != len(in) {
		t.Fatalf("key count changed: got %d, want %d", len(out), len(in))
	}
	if out["operation"] != "division" {
		t.Errorf("string leaf changed: %v", out["operation"])
	}
	if out["operand_a"] != 10 {
		t.Errorf("int leaf changed: %v", out["operand_a"])
	}
	if out["result"] != json.Number("2.5") {
		t.Errorf("result = %v, want json.Number(2.5)", out["result"])
	}

	nested := out["nested"].(map[string]any)
	if nested["confidence"] != json.Number("0.875") {
		t.Errorf("nested float = %v", nested["confidence"])
	}
	labels := nested["labels"].([]any)
	if len(labels) != 3 || labels[0] != "graphene" || labels[1] != json.Number("0.25") || labels[2] != true {
		t.Errorf("sequence not preserved: %v", labels)
	}

	if got := len(out["empty"].([]any)); got != 0 {
		t.Errorf("empty slice grew to %d elements", got)
	}
}

func TestNormalize_PassThrough(t *testing.T) {
	for _, v := range []any{nil, "text", 42, int64(7), true, []byte("raw")} {
		if got := Normalize(v); !same(got, v) {
			t.Errorf("Normalize(%v) = %v, want unchanged", v, got)
		}
	}
}

func same(a, b any) bool {
	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && string(ab) == string(bb)
	}
	return a == b
}

func TestNormalize_MarshalsExactDecimal(t *testing.T) {
	out := NormalizeMap(map[string]any{"result": 2.5})
	b, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `{"result":2.5}` {
		t.Errorf("marshaled %s, want {\"result\":2.5}", b)
	}
}

func TestNormalizeMap_Nil(t *testing.T) {
	if NormalizeMap(nil) != nil {
		t.Error("nil map should stay nil")
	}
}
