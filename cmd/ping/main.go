// cmd/ping/main.go
//
// Intended for Docker HEALTHCHECK:
//   HEALTHCHECK CMD ["/ping"]

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort    = 8080
	healthEndpoint = "/healthz"
	requestTimeout = 1 * time.Second
)

// exit codes, one per failure mode so `docker inspect` can tell them apart
const (
	codeRequestFailed     = 2
	codeBadHTTPStatus     = 3
	codeDecodeError       = 4
	codeReportedUnhealthy = 5
)

// healthResp picks the status field out of the /healthz body and
// ignores the diagnostic extras.
type healthResp struct {
	Status string `json:"status"`
}

func main() {
	port := detectPort()
	if code, err := probe(port); err != nil {
		log.Print(err)
		os.Exit(code)
	}
	log.Printf("service healthy on port %d", port)
}

// probe hits /healthz once and maps each failure mode to its exit code.
func probe(port int) (int, error) {
	url := fmt.Sprintf("http://localhost:%d%s", port, healthEndpoint)
	client := &http.Client{Timeout: requestTimeout}

	resp, err := client.Get(url)
	if err != nil {
		return codeRequestFailed, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return codeBadHTTPStatus, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	var h healthResp
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil && !errors.Is(err, io.EOF) {
		return codeDecodeError, fmt.Errorf("decode error: %w", err)
	}
	if h.Status != "" && h.Status != "ok" {
		return codeReportedUnhealthy, fmt.Errorf("service reported unhealthy: %q", h.Status)
	}

	return 0, nil
}

// detectPort parses APP_PORT and falls back to defaultPort.
func detectPort() int {
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	return defaultPort
}
