package core

import "testing"

func TestNormalizeMerchant(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Uber Eats ZA", "UBEREATSZA"},
		{"UBER*EATS-ZA", "UBEREATSZA"},
		{"Pick n Pay #42", "PICKNPAY42"},
		{"", ""},
	}
	for i, tc := range cases {
		if got := NormalizeMerchant(tc.in); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestTransactionIDDeterministic(t *testing.T) {
	a := TransactionID("2026-02-11T08:30:00", "Uber Eats ZA", 12550)
	b := TransactionID("2026-02-11T08:30:00", "uber*eats za", 12550)
	if a != b {
		t.Fatalf("ids differ for equivalent events: %q vs %q", a, b)
	}
	if a != "2026-02-11T08:30:00_UBEREATSZA_12550" {
		t.Fatalf("unexpected id format: %q", a)
	}
	if TransactionID("2026-02-11T08:30:00", "Uber Eats ZA", 12551) == a {
		t.Fatalf("different amounts must not collide")
	}
}
