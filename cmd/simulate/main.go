package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// The simulator drives concurrent booking attempts for one doctor slot
// through the public API. With the slot lock and the unique indexes in
// place, exactly one attempt should succeed no matter how many workers race.

type SimConfig struct {
	APIBaseURL string
	Workers    int
	SlotHour   int
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type result struct {
	status  int
	latency time.Duration
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := SimConfig{
		APIBaseURL: getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Workers:    getInt("SIM_WORKERS", 20),
		SlotHour:   getInt("SIM_SLOT_HOUR", 10),
	}

	log.Printf("config: base_url=%s workers=%d slot_hour=%d", cfg.APIBaseURL, cfg.Workers, cfg.SlotHour)

	client := &http.Client{Timeout: 10 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tokens := make([]string, cfg.Workers)
	for i := range tokens {
		token, err := registerPatient(ctx, client, cfg.APIBaseURL, i)
		if err != nil {
			log.Fatalf("register patient %d: %v", i, err)
		}
		tokens[i] = token
	}
	log.Printf("registered %d patients", cfg.Workers)

	doctorID, err := pickDoctor(ctx, client, cfg.APIBaseURL, tokens[0])
	if err != nil {
		log.Fatalf("pick doctor: %v", err)
	}
	log.Printf("target doctor: %s", doctorID)

	slot := time.Now().UTC().AddDate(0, 0, 1)
	slot = time.Date(slot.Year(), slot.Month(), slot.Day(), cfg.SlotHour, 0, 0, 0, time.UTC)
	log.Printf("target slot: %s", slot.Format(time.RFC3339))

	results := make([]result, cfg.Workers)
	var started, created, conflicted, failed int64

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			<-start
			atomic.AddInt64(&started, 1)

			t0 := time.Now()
			status, err := book(ctx, client, cfg.APIBaseURL, tokens[workerID], doctorID, slot)
			results[workerID] = result{status: status, latency: time.Since(t0)}

			switch {
			case err != nil:
				atomic.AddInt64(&failed, 1)
			case status == http.StatusCreated:
				atomic.AddInt64(&created, 1)
			case status == http.StatusBadRequest:
				atomic.AddInt64(&conflicted, 1)
			default:
				atomic.AddInt64(&failed, 1)
			}
		}(i)
	}

	close(start)
	wg.Wait()

	printReport(cfg, results, created, conflicted, failed)

	if created != 1 {
		log.Fatalf("expected exactly 1 booking to win, got %d", created)
	}
	log.Println("slot uniqueness held under contention")
}

func registerPatient(ctx context.Context, client *http.Client, baseURL string, n int) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"name":     fmt.Sprintf("Sim Patient %d", n),
		"email":    fmt.Sprintf("sim-%d-%d@example.com", time.Now().UnixNano(), n),
		"password": "simulation-pass",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/auth/register", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", err
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", err
	}
	if data.Token == "" {
		return "", fmt.Errorf("no token in response")
	}
	return data.Token, nil
}

func pickDoctor(ctx context.Context, client *http.Client, baseURL, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/doctors?limit=1", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", err
	}
	var doctors []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &doctors); err != nil {
		return "", err
	}
	if len(doctors) == 0 {
		return "", fmt.Errorf("no doctors in directory, run the seed first")
	}
	return doctors[0].ID, nil
}

func book(ctx context.Context, client *http.Client, baseURL, token, doctorID string, slot time.Time) (int, error) {
	body, _ := json.Marshal(map[string]string{
		"doctor_id": doctorID,
		"starts_at": slot.Format(time.RFC3339),
		"reason":    "simulated contention",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/appointments", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func printReport(cfg SimConfig, results []result, created, conflicted, failed int64) {
	latencies := make([]time.Duration, 0, len(results))
	for _, r := range results {
		if r.status != 0 {
			latencies = append(latencies, r.latency)
		}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println("\n==== CONTENTION REPORT ====")
	fmt.Printf("Workers: %d\n", cfg.Workers)
	fmt.Printf("Created: %d\n", created)
	fmt.Printf("Conflicts: %d\n", conflicted)
	fmt.Printf("Failures: %d\n", failed)

	if len(latencies) > 0 {
		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		p95Idx := len(latencies) * 95 / 100
		if p95Idx >= len(latencies) {
			p95Idx = len(latencies) - 1
		}
		p95 := latencies[p95Idx]
		fmt.Printf("Latency: avg=%s min=%s max=%s p95=%s\n",
			(sum / time.Duration(len(latencies))).Round(time.Millisecond),
			latencies[0].Round(time.Millisecond),
			latencies[len(latencies)-1].Round(time.Millisecond),
			p95.Round(time.Millisecond))
	}
	fmt.Println()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
