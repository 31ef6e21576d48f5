package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("Secret1pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Secret1pass" {
		t.Fatalf("password stored in the clear")
	}
	if !Verify("Secret1pass", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if Verify("Wrong1pass", hash) {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")
	if a == b {
		t.Fatalf("different tokens hashed identically")
	}
	if a != HashToken("token-a") {
		t.Fatalf("expected deterministic token hash")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(a))
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Abc123", true},
		{"LongEnough99", true},
		{"Ab1", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{"", false},
	}

	for _, tc := range cases {
		ok, reason := Validate(tc.password)
		if ok != tc.ok {
			t.Errorf("Validate(%q) = %v (%s), want %v", tc.password, ok, reason, tc.ok)
		}
		if !ok && reason == "" {
			t.Errorf("Validate(%q) rejected without a reason", tc.password)
		}
	}
}
