package columns

import "testing"

func TestDiscoverBasicTallHeader(t *testing.T) {
	headers := []string{"code|1", "code|1|type", "setting", "description", "gross", "payer_name", "plan_name"}
	m := Discover(headers)

	if !m.HasRequiredSlots() {
		t.Fatal("expected required slots to be discovered")
	}
	if len(m.CodeCols) != 1 {
		t.Fatalf("expected 1 code column pair, got %d", len(m.CodeCols))
	}
	if m.CodeCols[0].CodeIdx != 0 || m.CodeCols[0].TypeIdx != 1 {
		t.Errorf("unexpected code column indices: %+v", m.CodeCols[0])
	}
	if m.Setting != 2 {
		t.Errorf("expected setting at index 2, got %d", m.Setting)
	}
	if m.Description != 3 {
		t.Errorf("expected description at index 3, got %d", m.Description)
	}
	if m.Gross != 4 {
		t.Errorf("expected gross at index 4, got %d", m.Gross)
	}
	if m.PayerName != 5 || m.PlanName != 6 {
		t.Errorf("unexpected payer/plan indices: %d %d", m.PayerName, m.PlanName)
	}
}

func TestDiscoverMultipleCodeColumnsOrdered(t *testing.T) {
	headers := []string{"code|2", "code|2|type", "code|1", "code|1|type", "setting", "description"}
	m := Discover(headers)

	if len(m.CodeCols) != 2 {
		t.Fatalf("expected 2 code pairs, got %d", len(m.CodeCols))
	}
	if m.CodeCols[0].N != 1 || m.CodeCols[1].N != 2 {
		t.Errorf("expected code columns ordered by suffix, got %+v", m.CodeCols)
	}
}

func TestDiscoverMissingTypeColumn(t *testing.T) {
	headers := []string{"code|1", "setting", "description"}
	m := Discover(headers)

	if len(m.CodeCols) != 1 {
		t.Fatalf("expected 1 code column, got %d", len(m.CodeCols))
	}
	if m.CodeCols[0].TypeIdx != -1 {
		t.Errorf("expected no matching type column, got %d", m.CodeCols[0].TypeIdx)
	}
}

func TestDiscoverMissingRequiredSlots(t *testing.T) {
	m := Discover([]string{"code|1", "code|1|type"})
	if m.HasRequiredSlots() {
		t.Fatal("expected missing setting/description to fail HasRequiredSlots")
	}
}

func TestDiscoverCaseAndPunctuationInsensitive(t *testing.T) {
	headers := []string{"Code|1", "Code|1|Type", "Setting:", "Description (full)"}
	m := Discover(headers)
	if !m.HasRequiredSlots() {
		t.Fatal("expected normalization to tolerate case/punctuation variation")
	}
}
