package main

import (
	"net/http"
	"os"
	"strings"
	"time"
)

// readyURL derives the probe target from AIRLOG_HTTP_ADDR unless HEALTH_URL is set.
func readyURL() string {
	if u := os.Getenv("HEALTH_URL"); u != "" {
		return u
	}
	addr := os.Getenv("AIRLOG_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/readyz"
}

func main() {
	c := &http.Client{Timeout: 2 * time.Second}
	resp, err := c.Get(readyURL())
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
