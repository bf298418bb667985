package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики
var (
	flowsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traffic_generator_flows_total",
		Help: "Количество прогнанных сценариев доставки",
	}, []string{"result"})

	flowDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "traffic_generator_flow_duration_seconds",
		Help:    "Длительность полного сценария доставки в секундах",
		Buckets: []float64{0.05, 0.1, 0.3, 0.5, 1, 2},
	})
)

type party struct {
	id   string
	role string
}

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) do(method, path string, who party, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", who.id)
	req.Header.Set("X-User-Role", who.role)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, msg)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// runFlow проводит одну доставку от создания до отзыва.
func runFlow(c *client, seller, driver party) error {
	payment := "prepaid"
	if rand.Intn(2) == 0 {
		payment = "cash_on_delivery"
	}

	var created struct {
		ID string `json:"id"`
	}
	err := c.do(http.MethodPost, "/deliveries", seller, map[string]any{
		"pickup_address":  "Склад, 1",
		"dropoff_address": "Покупатель, 2",
		"item_name":       "Коробка",
		"item_weight_kg":  1 + rand.Float64()*10,
		"item_fragile":    rand.Intn(4) == 0,
		"distance_km":     1 + rand.Float64()*20,
		"payment_type":    payment,
	}, &created)
	if err != nil {
		return err
	}

	base := "/deliveries/" + created.ID
	if err := c.do(http.MethodPost, base+"/claim", driver, nil, nil); err != nil {
		return err
	}
	for range 3 {
		if err := c.do(http.MethodPost, base+"/advance", driver, nil, nil); err != nil {
			return err
		}
	}

	err = c.do(http.MethodPost, base+"/proof", driver, map[string]any{
		"type":    "signature",
		"payload": "signed-by-customer",
	}, nil)
	if err != nil {
		return err
	}

	return c.do(http.MethodPost, base+"/feedback", seller, map[string]any{
		"rating": 1 + rand.Intn(5),
	}, nil)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	c := &client{
		baseURL: getenv("TARGET_URL", "http://localhost:8080"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	seller := party{id: "seller-load", role: "seller"}
	driver := party{id: "driver-load", role: "driver"}

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":2112", nil); err != nil {
			log.Fatal(err)
		}
	}()

	for {
		start := time.Now()
		err := runFlow(c, seller, driver)
		flowDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			log.Printf("flow failed: %v", err)
			flowsCounter.WithLabelValues("error").Inc()
		} else {
			flowsCounter.WithLabelValues("ok").Inc()
		}

		time.Sleep(time.Duration(500+rand.Intn(1500)) * time.Millisecond)
	}
}
