package receipt

import (
	"errors"
	"testing"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantItems []ExtractedItem
		wantTax   *float64
		wantSvc   *float64
	}{
		{
			name:  "plain JSON",
			input: `{"items":[{"name":"Pad Thai","unit_price":11.5,"quantity":2}]}`,
			wantItems: []ExtractedItem{
				{Name: "Pad Thai", UnitPrice: 11.5, Quantity: 2},
			},
		},
		{
			name: "markdown fenced JSON",
			input: "```json\n" +
				`{"items":[{"name":"Latte","unit_price":4.5,"quantity":1}]}` +
				"\n```",
			wantItems: []ExtractedItem{
				{Name: "Latte", UnitPrice: 4.5, Quantity: 1},
			},
		},
		{
			name:  "missing quantity defaults to one",
			input: `{"items":[{"name":"Spring Rolls","unit_price":6}]}`,
			wantItems: []ExtractedItem{
				{Name: "Spring Rolls", UnitPrice: 6, Quantity: 1},
			},
		},
		{
			name:  "nameless items are dropped",
			input: `{"items":[{"name":"","unit_price":3},{"name":"Soup","unit_price":5,"quantity":1}]}`,
			wantItems: []ExtractedItem{
				{Name: "Soup", UnitPrice: 5, Quantity: 1},
			},
		},
		{
			name:      "detected rates are passed through",
			input:     `{"items":[],"tax_rate":7,"service_charge_rate":10}`,
			wantItems: []ExtractedItem{},
			wantTax:   ptr(7.0),
			wantSvc:   ptr(10.0),
		},
		{
			name:      "absent rates stay nil",
			input:     `{"items":[]}`,
			wantItems: []ExtractedItem{},
		},
		{
			name:    "non-JSON reply",
			input:   "Sorry, I can't read this receipt.",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAnalysis(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnalysis returned error: %v", err)
			}

			if len(got.Items) != len(tc.wantItems) {
				t.Fatalf("items = %+v, want %+v", got.Items, tc.wantItems)
			}
			for i, want := range tc.wantItems {
				if got.Items[i] != want {
					t.Errorf("items[%d] = %+v, want %+v", i, got.Items[i], want)
				}
			}

			checkRate(t, "tax_rate", got.TaxRate, tc.wantTax)
			checkRate(t, "service_charge_rate", got.ServiceChargeRate, tc.wantSvc)
		})
	}
}

func TestAnalyzeWithoutAPIKey(t *testing.T) {
	svc := NewService("", "claude-sonnet-4-5")

	_, err := svc.Analyze(t.Context(), []byte("fake"), "image/jpeg")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func checkRate(t *testing.T, field string, got, want *float64) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %v, want nil", field, *got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %v", field, *want)
	case want != nil && got != nil && *got != *want:
		t.Errorf("%s = %v, want %v", field, *got, *want)
	}
}

func ptr(f float64) *float64 { return &f }
