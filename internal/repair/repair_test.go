package repair

import (
	"encoding/json"
	"errors"
	"testing"
)

const cleanObject = `{"text": "BERT improves accuracy", "confidence": 0.8}`

func assertClaimPayload(t *testing.T, out json.RawMessage) {
	t.Helper()
	var parsed struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("recovered payload does not decode: %v", err)
	}
	if parsed.Text != "BERT improves accuracy" {
		t.Errorf("unexpected text: %q", parsed.Text)
	}
	if parsed.Confidence != 0.8 {
		t.Errorf("unexpected confidence: %v", parsed.Confidence)
	}
}

func TestRepair_Direct(t *testing.T) {
	out, err := Repair(cleanObject)
	if err != nil {
		t.Fatalf("direct parse failed: %v", err)
	}
	assertClaimPayload(t, out)
}

func TestRepair_Fenced(t *testing.T) {
	raw := "Here is the result:\n```json\n" + cleanObject + "\n```\nDone."
	out, err := Repair(raw)
	if err != nil {
		t.Fatalf("fenced parse failed: %v", err)
	}
	assertClaimPayload(t, out)
}

func TestRepair_EmbeddedInProse(t *testing.T) {
	raw := "Sure! The extracted claim is " + cleanObject + " as requested."
	out, err := Repair(raw)
	if err != nil {
		t.Fatalf("embedded parse failed: %v", err)
	}
	assertClaimPayload(t, out)
}

func TestRepair_LeadingJSONToken(t *testing.T) {
	raw := "json\n" + cleanObject
	out, err := Repair(raw)
	if err != nil {
		t.Fatalf("leading-token parse failed: %v", err)
	}
	assertClaimPayload(t, out)
}

func TestRepair_TrailingSeparator(t *testing.T) {
	raw := `{"text": "BERT improves accuracy", "confidence": 0.8,}`
	out, err := Repair(raw)
	if err != nil {
		t.Fatalf("trailing-separator repair failed: %v", err)
	}
	assertClaimPayload(t, out)

	rawArr := `["a", "b",]`
	out, err = Repair(rawArr)
	if err != nil {
		t.Fatalf("trailing-separator array repair failed: %v", err)
	}
	var arr []string
	if err := json.Unmarshal(out, &arr); err != nil || len(arr) != 2 {
		t.Errorf("expected 2-element array, got %s (err %v)", out, err)
	}
}

func TestRepair_Array(t *testing.T) {
	raw := "```\n[{\"text\": \"one\"}, {\"text\": \"two\"}]\n```"
	out, err := Repair(raw)
	if err != nil {
		t.Fatalf("array parse failed: %v", err)
	}
	var arr []map[string]string
	if err := json.Unmarshal(out, &arr); err != nil || len(arr) != 2 {
		t.Errorf("expected 2-element array, got %s (err %v)", out, err)
	}
}

func TestRepair_PureProse(t *testing.T) {
	_, err := Repair("I could not find any claims in the provided text, sorry.")
	if !errors.Is(err, ErrUnparseable) {
		t.Errorf("expected ErrUnparseable, got %v", err)
	}

	_, err = Repair("")
	if !errors.Is(err, ErrUnparseable) {
		t.Errorf("expected ErrUnparseable for empty input, got %v", err)
	}
}

func TestRepairInto(t *testing.T) {
	var v struct {
		Text string `json:"text"`
	}
	if err := RepairInto("```json\n{\"text\": \"hi\"}\n```", &v); err != nil {
		t.Fatalf("RepairInto failed: %v", err)
	}
	if v.Text != "hi" {
		t.Errorf("expected hi, got %q", v.Text)
	}

	if err := RepairInto("no structure here", &v); !errors.Is(err, ErrUnparseable) {
		t.Errorf("expected ErrUnparseable, got %v", err)
	}
}
