package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"tabs and newlines", "\t\n", true},
		{"non-empty", "value", false},
		{"padded value", "  value  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.input); got != tt.want {
				t.Errorf("IsEmpty(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"digits", "123456", true},
		{"single digit", "0", true},
		{"empty", "", false},
		{"letters", "abc", false},
		{"mixed", "12a4", false},
		{"negative sign", "-10", false},
		{"decimal point", "1.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNumeric(tt.input); got != tt.want {
				t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"v4 uuid", "550e8400-e29b-41d4-a716-446655440000", true},
		{"v7 uuid", "0189d6a8-1a2b-7c3d-8e4f-567890abcdef", true},
		{"uppercase", "550E8400-E29B-41D4-A716-446655440000", true},
		{"empty", "", false},
		{"missing dashes", "550e8400e29b41d4a716446655440000", false},
		{"too short", "550e8400-e29b-41d4-a716", false},
		{"bad variant", "550e8400-e29b-41d4-c716-446655440000", false},
		{"not hex", "550e8400-e29b-41d4-a716-44665544zzzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidUUID(tt.input); got != tt.want {
				t.Errorf("IsValidUUID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid date", "2025-06-15", true},
		{"leap day", "2024-02-29", true},
		{"invalid day", "2025-02-30", false},
		{"wrong format", "15-06-2025", false},
		{"with time", "2025-06-15T10:00:00Z", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IsValidDate(tt.input)
			if ok != tt.want {
				t.Errorf("IsValidDate(%q) ok = %v, want %v", tt.input, ok, tt.want)
			}
			if ok && got.Format("2006-01-02") != tt.input {
				t.Errorf("IsValidDate(%q) parsed to %v", tt.input, got)
			}
		})
	}
}

func TestIsValidDateTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"utc timestamp", "2025-06-15T10:30:00Z", true},
		{"with offset", "2025-06-15T10:30:00+07:00", true},
		{"with nanos", "2025-06-15T10:30:00.123456789Z", true},
		{"date only", "2025-06-15", false},
		{"no timezone", "2025-06-15T10:30:00", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := IsValidDateTime(tt.input); ok != tt.want {
				t.Errorf("IsValidDateTime(%q) = %v, want %v", tt.input, ok, tt.want)
			}
		})
	}
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"draft", "approved", "paid"}

	if !IsInSlice("approved", statuses) {
		t.Error("expected approved to be in slice")
	}
	if IsInSlice("rejected", statuses) {
		t.Error("did not expect rejected to be in slice")
	}
	if IsInSlice("draft", nil) {
		t.Error("did not expect a match in a nil slice")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "employee_id", Message: "employee_id is required"},
		{Field: "status", Message: "unknown payroll status"},
	}

	want := "employee_id: employee_id is required; status: unknown payroll status"
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() returned %d entries, want 2", len(m))
	}
	if m["employee_id"] != "employee_id is required" {
		t.Errorf("ToMap()[employee_id] = %q", m["employee_id"])
	}
}
