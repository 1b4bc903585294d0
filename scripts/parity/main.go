// Command parity replays a set of read-only requests against the legacy
// FastAPI backend and this server, and reports response differences.
// Volatile fields (ids, timestamps, tokens) are masked before comparison.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

var volatileFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"access_token": true,
	"expires_in":   true,
}

type probe struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Body     string `json:"body,omitempty"`
	Critical bool   `json:"critical"`
}

type probeFile struct {
	Probes []probe `json:"probes"`
}

type result struct {
	Probe          probe
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Err            error
	GoDuration     time.Duration
	LegacyDuration time.Duration
}

func main() {
	var (
		goBase     string
		legacyBase string
		probesPath string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "legacy FastAPI base URL")
	flag.StringVar(&probesPath, "probes", filepath.Join("scripts", "parity", "probes.json"), "path to JSON probe file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	probes, err := loadProbes(probesPath)
	if err != nil {
		log.Fatalf("failed to load probes: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var results []result
	breaking := 0

	for _, p := range probes {
		res := runProbe(client, goBase, legacyBase, p)
		if p.Critical && (res.Err != nil || !res.StatusMatch || !res.BodyMatch) {
			breaking++
		}
		results = append(results, res)
	}

	printReport(results)
	fmt.Printf("Breaking differences: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f probeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return f.Probes, nil
}

func runProbe(client *http.Client, goBase, legacyBase string, p probe) result {
	res := result{Probe: p}

	goStatus, goBody, goDur, err := send(client, goBase, p)
	if err != nil {
		res.Err = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacyStatus, legacyBody, legacyDur, err := send(client, legacyBase, p)
	if err != nil {
		res.Err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.GoStatus = goStatus
	res.LegacyStatus = legacyStatus
	res.GoDuration = goDur
	res.LegacyDuration = legacyDur
	res.StatusMatch = goStatus == legacyStatus
	res.BodyMatch = bodiesEqual(goBody, legacyBody)
	return res
}

func send(client *http.Client, base string, p probe) (int, []byte, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := p.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if p.Body != "" {
		body = strings.NewReader(p.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if p.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, raw, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	mask(&aj)
	mask(&bj)
	return reflect.DeepEqual(aj, bj)
}

// mask blanks server-generated values and folds whole-number floats so the
// two backends compare structurally.
func mask(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if volatileFields[k] {
				val[k] = nil
				continue
			}
			mask(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			mask(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []result) {
	fmt.Println("Parity Report")
	fmt.Println("=============")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Probe.Method, res.Probe.Path)
		if res.Err != nil {
			fmt.Printf("  error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  go %d (%s) | legacy %d (%s)\n", res.GoStatus, res.GoDuration, res.LegacyStatus, res.LegacyDuration)
		fmt.Printf("  status match: %t | body match: %t | critical: %t\n", res.StatusMatch, res.BodyMatch, res.Probe.Critical)
	}
}
