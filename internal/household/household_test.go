package household

import "testing"

func TestKey(t *testing.T) {
	cases := []struct {
		address string
		unit    string
		want    string
	}{
		{"123 Spring Ln", "", "123 Spring Ln"},
		{"123 Spring Ln", "4B", "123 Spring Ln Unit 4B"},
		{" 123 Spring Ln ", " 4B ", "123 Spring Ln Unit 4B"},
		{"123 Spring Ln", "  ", "123 Spring Ln"},
	}
	for _, c := range cases {
		if got := Key(c.address, c.unit); got != c.want {
			t.Errorf("Key(%q, %q) = %q, want %q", c.address, c.unit, got, c.want)
		}
	}
}

func TestKeySharedAcrossSpouses(t *testing.T) {
	a := Key("77 Shelton Dr", "")
	b := Key("77 Shelton Dr", "")
	if a != b {
		t.Fatalf("same address produced different keys: %q vs %q", a, b)
	}
	if a == Key("77 Shelton Dr", "2") {
		t.Fatal("unit number must separate households at the same address")
	}
}
