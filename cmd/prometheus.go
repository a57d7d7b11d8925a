package cmd

import (
	"github.com/prometheus/client_golang/prometheus"

	sim "github.com/factory-sim/factory-sim/sim"
)

var (
	// Prometheus metrics (gauges)
	promMetrics = struct {
		virtualTime  prometheus.Gauge
		produced     prometheus.Gauge
		rawMaterials prometheus.Gauge
		machinesBusy *prometheus.GaugeVec
		unitsWaiting *prometheus.GaugeVec
	}{
		virtualTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "factory_virtual_time_minutes",
			Help: "Current simulation clock in virtual minutes",
		}),
		produced: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "factory_units_produced_total",
			Help: "Units that completed all production stages",
		}),
		rawMaterials: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "factory_raw_materials_used_total",
			Help: "Units injected into the production line",
		}),
		machinesBusy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "factory_machines_busy",
			Help: "Machines currently held per stage pool",
		}, []string{"machine"}),
		unitsWaiting: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "factory_units_waiting",
			Help: "Requests queued per stage pool",
		}, []string{"machine"}),
	}
)

func initPrometheusMetrics() {
	prometheus.MustRegister(
		promMetrics.virtualTime,
		promMetrics.produced,
		promMetrics.rawMaterials,
		promMetrics.machinesBusy,
		promMetrics.unitsWaiting,
	)
}

func updatePrometheusMetrics(s *sim.Simulation) {
	promMetrics.virtualTime.Set(s.Now())

	result := s.Result()
	promMetrics.produced.Set(float64(result.Produced))
	promMetrics.rawMaterials.Set(float64(result.RawMaterialsUsed))

	for _, ps := range s.PoolStates() {
		promMetrics.machinesBusy.WithLabelValues(ps.Machine).Set(float64(ps.InUse))
		promMetrics.unitsWaiting.WithLabelValues(ps.Machine).Set(float64(ps.Waiting))
	}
}
