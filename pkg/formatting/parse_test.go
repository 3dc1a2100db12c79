package formatting

import "testing"

type classification struct {
	Format string `json:"format"`
	Intent string `json:"intent"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    classification
		wantErr bool
	}{
		{
			name: "bare json",
			raw:  `{"format": "Email", "intent": "Complaint"}`,
			want: classification{Format: "Email", Intent: "Complaint"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"format\": \"PDF\", \"intent\": \"Invoice\"}\n```",
			want: classification{Format: "PDF", Intent: "Invoice"},
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"format\": \"JSON\", \"intent\": \"RFQ\"}\n```",
			want: classification{Format: "JSON", Intent: "RFQ"},
		},
		{
			name: "surrounding prose",
			raw:  "Here is the result:\n{\"format\": \"Email\", \"intent\": \"Fraud Risk\"}\nLet me know if you need more.",
			want: classification{Format: "Email", Intent: "Fraud Risk"},
		},
		{
			name:    "no json",
			raw:     "I could not classify this document.",
			wantErr: true,
		},
		{
			name:    "unterminated",
			raw:     `{"format": "Email"`,
			wantErr: true,
		},
		{
			name:    "malformed",
			raw:     `{"format": Email}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse[classification](tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"32mb", 32 << 20, false},
		{"1gb", 1 << 30, false},
		{"512kb", 512 << 10, false},
		{"100b", 100, false},
		{"2048", 2048, false},
		{"1.5mb", 1572864, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseBytes(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
