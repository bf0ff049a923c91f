package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !Verify("Secret123", hash) {
		t.Fatal("expected password to verify")
	}
	if Verify("secret123", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestCheckStrength(t *testing.T) {
	cases := map[string]bool{
		"Secret123": true,
		"secret123": false,
		"SECRET123": false,
		"SecretOne": false,
	}
	for pw, ok := range cases {
		if err := CheckStrength(pw); (err == nil) != ok {
			t.Errorf("CheckStrength(%q) = %v, want ok=%v", pw, err, ok)
		}
	}
}
