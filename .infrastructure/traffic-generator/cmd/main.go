package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traffic_generator_requests_total",
		Help: "Запросы генератора к parcelflow по операции и коду ответа",
	}, []string{"operation", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "traffic_generator_request_duration_seconds",
		Help:    "Длительность запроса генератора в секундах",
		Buckets: []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2},
	}, []string{"operation"})
)

type parcelCreate struct {
	OriginStationID      int64  `json:"origin_station_id"`
	DestinationStationID int64  `json:"destination_station_id"`
	SenderName           string `json:"sender_name"`
	SenderPhone          string `json:"sender_phone"`
	RecipientName        string `json:"recipient_name"`
	RecipientPhone       string `json:"recipient_phone"`
	DeclaredValue        int64  `json:"declared_value"`
	WeightGrams          int64  `json:"weight_grams"`
}

type parcel struct {
	ID           string `json:"id"`
	TrackingCode string `json:"tracking_code"`
}

type generator struct {
	client   *http.Client
	baseURL  string
	stations []int64
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return 0
}

func (g *generator) do(operation string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := g.client.Do(req)
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(operation, "error").Inc()
		return nil, err
	}
	requestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

func (g *generator) createParcel() (*parcel, error) {
	origin := g.stations[rand.Intn(len(g.stations))]
	destination := g.stations[(rand.Intn(len(g.stations)-1)+1+indexOf(g.stations, origin))%len(g.stations)]

	body, err := json.Marshal(parcelCreate{
		OriginStationID:      origin,
		DestinationStationID: destination,
		SenderName:           "Generator Sender",
		SenderPhone:          "+70000000001",
		RecipientName:        "Generator Recipient",
		RecipientPhone:       "+70000000002",
		DeclaredValue:        int64(1000 + rand.Intn(100000)),
		WeightGrams:          int64(100 + rand.Intn(20000)),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, g.baseURL+"/parcel", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "traffic-generator")
	req.Header.Set("X-Actor-Role", "admin")
	req.Header.Set("X-Actor-Station-ID", strconv.FormatInt(origin, 10))

	resp, err := g.do("create_parcel", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create parcel: unexpected status %d", resp.StatusCode)
	}

	var p parcel
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *generator) trackParcel(trackingCode string) error {
	req, err := http.NewRequest(http.MethodGet, g.baseURL+"/parcel/"+trackingCode, nil)
	if err != nil {
		return err
	}

	resp, err := g.do("track_parcel", req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func main() {
	baseURL := flag.String("target", "http://localhost:8080", "адрес parcelflow")
	interval := flag.Duration("interval", 5*time.Second, "пауза между итерациями")
	metricsAddr := flag.String("metrics", ":2112", "адрес /metrics генератора")
	flag.Parse()

	g := &generator{
		client:   &http.Client{Timeout: 5 * time.Second},
		baseURL:  *baseURL,
		stations: []int64{1, 2, 3},
	}

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil { //nolint:gosec // служебный генератор
			log.Fatalf("metrics server: %v", err)
		}
	}()

	for {
		p, err := g.createParcel()
		if err != nil {
			log.Printf("create parcel: %v", err)
		} else if err := g.trackParcel(p.TrackingCode); err != nil {
			log.Printf("track parcel %s: %v", p.TrackingCode, err)
		}
		time.Sleep(*interval)
	}
}
