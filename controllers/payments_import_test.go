package controllers

import "testing"

func TestParseImportDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		isNil bool
	}{
		{
			name:  "iso date",
			input: "2026-03-01",
			want:  "2026-03-01",
		},
		{
			name:  "day first slash date",
			input: "01/03/2026",
			want:  "2026-03-01",
		},
		{
			name:  "padded input",
			input: "  2026-03-01  ",
			want:  "2026-03-01",
		},
		{
			name:  "empty",
			input: "",
			isNil: true,
		},
		{
			name:  "garbage",
			input: "not-a-date",
			isNil: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := parseImportDate(tc.input)
			if tc.isNil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tc.want)
			}
			if got.Format("2006-01-02") != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestParseImportAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain amount",
			input: "1800.00",
			want:  "1800",
		},
		{
			name:  "thousands separator",
			input: "1,800.50",
			want:  "1800.5",
		},
		{
			name:  "currency prefix",
			input: "$2500",
			want:  "2500",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "not a number",
			input:   "abc",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseImportAmount(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.String())
			}
		})
	}
}

func TestMapImportHeader(t *testing.T) {
	header := []string{"Plan ID", " Installment Number ", "Paid Date", "Paid Amount"}
	col := mapImportHeader(header)

	if col["Plan ID"] != 0 {
		t.Fatalf("expected Plan ID at 0, got %d", col["Plan ID"])
	}
	if col["Installment Number"] != 1 {
		t.Fatalf("expected trimmed header at 1, got %d", col["Installment Number"])
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"payments.xlsx", "payments.xlsx"},
		{"../../etc/passwd", "passwd"},
		{"march payments (1).csv", "march_payments__1_.csv"},
	}

	for _, tc := range tests {
		if got := sanitizeFilename(tc.input); got != tc.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
