package donation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var submissionsMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "voicedon",
	Name:      "submissions_total",
	Help:      "Recording submissions to the backend",
}, []string{"result"})

var batchesMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "voicedon",
	Name:      "donations_total",
	Help:      "Multi task donation submissions",
}, []string{"result"})

func init() {
	prometheus.MustRegister(submissionsMetric, batchesMetric)
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
