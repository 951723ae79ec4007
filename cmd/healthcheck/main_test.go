package main

import "testing"

func TestReadyURL(t *testing.T) {
	cases := []struct {
		health, addr, want string
	}{
		{"", "", "http://localhost:8080/readyz"},
		{"", ":9090", "http://localhost:9090/readyz"},
		{"", "10.0.0.5:8080", "http://10.0.0.5:8080/readyz"},
		{"http://probe/readyz", ":9090", "http://probe/readyz"},
	}
	for _, tc := range cases {
		t.Setenv("HEALTH_URL", tc.health)
		t.Setenv("AIRLOG_HTTP_ADDR", tc.addr)
		if got := readyURL(); got != tc.want {
			t.Errorf("readyURL(%q, %q) = %s, want %s", tc.health, tc.addr, got, tc.want)
		}
	}
}
