// Command benchmark fires concurrent queries at a running server's REST
// mirror and reports latency percentiles per endpoint. It is a development
// tool; the numbers depend entirely on the backends the server talks to.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"
)

type Config struct {
	BaseURL     string
	Namespace   string
	Names       []string
	Requests    int
	Concurrency int
	Timeout     time.Duration
	APIKey      string
}

type sample struct {
	endpoint string
	duration time.Duration
	status   int
	err      error
}

func parseFlags() Config {
	var cfg Config
	var names string
	flag.StringVar(&cfg.BaseURL, "url", "http://localhost:8080", "Base URL of the API server")
	flag.StringVar(&cfg.Namespace, "ns", "p", "Namespace of the names to query")
	flag.StringVar(&names, "names", "domob", "Comma-separated names to query")
	flag.IntVar(&cfg.Requests, "n", 100, "Total requests per endpoint")
	flag.IntVar(&cfg.Concurrency, "c", 8, "Concurrent requests")
	flag.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "Per-request timeout")
	flag.StringVar(&cfg.APIKey, "api-key", "", "API key, when the server requires one")
	flag.Parse()

	cfg.Names = strings.Split(names, ",")
	return cfg
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	endpoints := make([]string, 0, 2*len(cfg.Names))
	for _, name := range cfg.Names {
		name = strings.TrimSpace(name)
		endpoints = append(endpoints,
			fmt.Sprintf("/v1/names/%s/%s", cfg.Namespace, name),
			fmt.Sprintf("/v1/names/%s/%s/owner", cfg.Namespace, name),
		)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	pool := pond.NewPool(cfg.Concurrency)

	var mu sync.Mutex
	samples := make(map[string][]sample)

	for _, endpoint := range endpoints {
		for i := 0; i < cfg.Requests; i++ {
			endpoint := endpoint
			pool.Submit(func() {
				s := probe(ctx, client, cfg, endpoint)
				mu.Lock()
				samples[endpoint] = append(samples[endpoint], s)
				mu.Unlock()
			})
		}
	}
	pool.StopAndWait()

	report(samples)
}

func probe(ctx context.Context, client *http.Client, cfg Config, endpoint string) sample {
	s := sample{endpoint: endpoint}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+endpoint, nil)
	if err != nil {
		s.err = err
		return s
	}
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "ApiKey "+cfg.APIKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	s.duration = time.Since(start)
	if err != nil {
		s.err = err
		return s
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	s.status = resp.StatusCode
	return s
}

func report(samples map[string][]sample) {
	endpoints := make([]string, 0, len(samples))
	for endpoint := range samples {
		endpoints = append(endpoints, endpoint)
	}
	sort.Strings(endpoints)

	for _, endpoint := range endpoints {
		results := samples[endpoint]

		var ok, failed int
		durations := make([]time.Duration, 0, len(results))
		for _, s := range results {
			if s.err != nil || s.status >= 500 {
				failed++
				continue
			}
			ok++
			durations = append(durations, s.duration)
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		fmt.Printf("%s\n", endpoint)
		fmt.Printf("  ok=%d failed=%d\n", ok, failed)
		if len(durations) > 0 {
			fmt.Printf("  p50=%s p90=%s p99=%s max=%s\n",
				percentile(durations, 0.50),
				percentile(durations, 0.90),
				percentile(durations, 0.99),
				durations[len(durations)-1])
		}
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
