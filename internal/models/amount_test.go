package models

import (
	"encoding/json"
	"testing"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Amount
	}{
		{name: "string", input: `"12.50"`, want: "12.50"},
		{name: "number", input: `12.5`, want: "12.5"},
		{name: "integer", input: `500`, want: "500"},
		{name: "null", input: `null`, want: ""},
		{name: "empty_string", input: `""`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Amount Amount `json:"amount"`
			}
			if err := json.Unmarshal([]byte(`{"amount":`+tt.input+`}`), &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Amount != tt.want {
				t.Errorf("Amount = %q, want %q", got.Amount, tt.want)
			}
		})
	}
}

func TestAmount_Decimal(t *testing.T) {
	tests := []struct {
		amount Amount
		want   string
		ok     bool
	}{
		{amount: "100", want: "100", ok: true},
		{amount: " 0.25 ", want: "0.25", ok: true},
		{amount: "-3", want: "-3", ok: true},
		{amount: "", ok: false},
		{amount: "abc", ok: false},
		{amount: "12,50", ok: false},
		{amount: "1.5e3", want: "1500", ok: true},
		{amount: "1e15", want: "1000000000000000", ok: true},
		{amount: "1e16", ok: false},
		{amount: "1e2000000000", ok: false},
		{amount: "1e-19", ok: false},
		{amount: "123456789012345678901234567890123456789", ok: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.amount), func(t *testing.T) {
			d, ok := tt.amount.Decimal()
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && d.String() != tt.want {
				t.Errorf("Decimal() = %s, want %s", d, tt.want)
			}
		})
	}
}

func TestCategoryName(t *testing.T) {
	if got := (Transaction{}).CategoryName(); got != Uncategorized {
		t.Errorf("nil category = %q, want %q", got, Uncategorized)
	}
	if got := (Transaction{Categories: &CategoryRef{}}).CategoryName(); got != Uncategorized {
		t.Errorf("empty category = %q, want %q", got, Uncategorized)
	}
	if got := (Transaction{Categories: &CategoryRef{Name: "Uncategorized"}}).CategoryName(); got != "Uncategorized" {
		t.Errorf("user category = %q, want Uncategorized", got)
	}
}

func TestCollection_Decode(t *testing.T) {
	payload := `{"edges":[
		{"node":{"id":"a","amount":"10","type":"expense","categories":{"name":"Food"}}},
		{"node":{"id":"b","amount":5,"type":"income","categories":null}}
	]}`

	var c Collection[Transaction]
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nodes := c.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].CategoryName() != "Food" || nodes[1].CategoryName() != Uncategorized {
		t.Errorf("unexpected categories: %q, %q", nodes[0].CategoryName(), nodes[1].CategoryName())
	}
	if nodes[1].Amount != "5" {
		t.Errorf("numeric amount decoded as %q", nodes[1].Amount)
	}

	var m MutationResult[Transaction]
	if _, ok := m.First(); ok {
		t.Error("empty mutation result should have no first record")
	}
}

func TestSavingsGoal_Progress(t *testing.T) {
	tests := []struct {
		name    string
		current Amount
		target  Amount
		want    float64
	}{
		{name: "quarter", current: "250", target: "1000", want: 25},
		{name: "over_funded", current: "1500", target: "1000", want: 150},
		{name: "zero_target", current: "10", target: "0", want: 0},
		{name: "missing_target", current: "10", target: "", want: 0},
		{name: "bad_current", current: "x", target: "100", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := SavingsGoal{CurrentAmount: tt.current, TargetAmount: tt.target}
			if got := g.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}
