package version

import "testing"

func TestFull(t *testing.T) {
	v, b := Version, Build
	t.Cleanup(func() { Version, Build = v, b })

	Version, Build = "1.2.0", ""
	if got := Full(); got != "1.2.0" {
		t.Fatalf("got %s", got)
	}
	Build = "abc123"
	if got := Get("airlog"); got.Version != "1.2.0+abc123" || got.GitCommit != "abc123" || got.Service != "airlog" {
		t.Fatalf("unexpected info %+v", got)
	}
}
