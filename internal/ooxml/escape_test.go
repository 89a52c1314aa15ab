package ooxml

import "testing"

func TestEscape_Metacharacters(t *testing.T) {
	got := Escape(`Trusts & ISAs <5% "cap"`)
	want := "Trusts &amp; ISAs &lt;5% &quot;cap&quot;"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEscape_MojibakeRepair(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Â£250,000 in savings", "£250,000 in savings"},
		{"the clientâ€™s pension", "the client's pension"},
		{"â€œcapacity for lossâ€", "&quot;capacity for loss&quot;"},
	}
	for _, tc := range cases {
		if got := Escape(tc.in); got != tc.want {
			t.Errorf("Escape(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestEscape_Empty(t *testing.T) {
	if got := Escape(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
