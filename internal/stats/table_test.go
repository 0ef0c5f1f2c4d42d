package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Week", "Score", "Sets"}
	rows := [][]string{
		{"2024-W16", "47.00", "12"},
		{"2024-W17", "148.25", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Week       Score  Sets" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2024-W16   47.00    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "2024-W17  148.25     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "Kg"}, [][]string{{"ベンチ", "60"}, {"Row", "40"}}, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "ベンチ  60" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "Row     40" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}
