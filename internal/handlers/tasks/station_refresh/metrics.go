package station_refresh

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var StationsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "station_directory_size",
	Help: "Stations in the in-memory directory snapshot",
})
