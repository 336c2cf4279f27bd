package handlers

import "testing"

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int64
		wantLimit int64
		wantErr   bool
	}{
		{"defaults", "", "", 1, 20, false},
		{"explicit", "3", "50", 3, 50, false},
		{"zero page", "0", "", 0, 0, true},
		{"negative page", "-1", "", 0, 0, true},
		{"non-numeric page", "abc", "", 0, 0, true},
		{"zero limit", "", "0", 0, 0, true},
		{"limit over cap", "", "101", 0, 0, true},
		{"limit at cap", "", "100", 1, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, err := parsePaginationParams(tt.pageStr, tt.limitStr)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got (%d, %d), want (%d, %d)", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}
