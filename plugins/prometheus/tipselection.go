package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	entryPointSelections   *prometheus.GaugeVec
	entryPointWork         *prometheus.GaugeVec
	lastEntryPointWeight   prometheus.Gauge
	lastEntryPointDuration prometheus.Gauge
	walkValidations        *prometheus.GaugeVec
	tipPoolSize            prometheus.Gauge
)

func configureTipSelection() {

	entryPointSelections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "iota",
			Subsystem: "tipselection",
			Name:      "entry_point_selections",
			Help:      "Number of entry point selections per result.",
		},
		[]string{"result"},
	)

	entryPointWork = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "iota",
			Subsystem: "tipselection",
			Name:      "entry_point_work",
			Help:      "Work done by the entry point selection.",
		},
		[]string{"type"},
	)

	lastEntryPointWeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "iota",
		Subsystem: "tipselection",
		Name:      "last_entry_point_weight",
		Help:      "Cumulative weight of the last selected entry point.",
	})

	lastEntryPointDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "iota",
		Subsystem: "tipselection",
		Name:      "last_entry_point_duration_seconds",
		Help:      "Duration of the last entry point selection.",
	})

	walkValidations = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "iota",
			Subsystem: "tipselection",
			Name:      "walk_validations",
			Help:      "Number of transactions checked by the walk validator per result.",
		},
		[]string{"result"},
	)

	tipPoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "iota",
		Subsystem: "tipselection",
		Name:      "tip_pool_size",
		Help:      "Number of tips in the tip pool.",
	})

	registry.MustRegister(entryPointSelections)
	registry.MustRegister(entryPointWork)
	registry.MustRegister(lastEntryPointWeight)
	registry.MustRegister(lastEntryPointDuration)
	registry.MustRegister(walkValidations)
	registry.MustRegister(tipPoolSize)

	addCollect(collectTipSelection)
}

func collectTipSelection() {
	m := deps.TipSelMetrics

	entryPointSelections.WithLabelValues("success").Set(float64(m.EntryPointSelections.Load()))
	entryPointSelections.WithLabelValues("failure").Set(float64(m.EntryPointFailures.Load()))
	entryPointSelections.WithLabelValues("subtangle_too_big").Set(float64(m.SubtangleTooBig.Load()))

	entryPointWork.WithLabelValues("weight_probes").Set(float64(m.WeightProbes.Load()))
	entryPointWork.WithLabelValues("backtrack_steps").Set(float64(m.BacktrackSteps.Load()))

	lastEntryPointWeight.Set(float64(m.LastEntryPointWeight.Load()))
	lastEntryPointDuration.Set(m.LastEntryPointDurationValue().Seconds())

	walkValidations.WithLabelValues("accepted").Set(float64(m.WalkValidationsAccepted.Load()))
	walkValidations.WithLabelValues("rejected").Set(float64(m.WalkValidationsRejected.Load()))

	tipPoolSize.Set(float64(deps.TipPool.Len()))
}
