package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "verdict"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	pushFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "push_failures_total",
		Help:      "Count of status-push updates that could not be delivered",
	}, []string{
		"endpoint",
	})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "api_errors_total",
		Help:      "Count of classified API errors by HTTP status code",
	}, []string{
		"status_code",
	})

	runsTriggeredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_triggered_total",
		Help:      "Count of remote runs triggered",
	}, []string{
		"target_type",
	})

	runsCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_completed_total",
		Help:      "Count of remote runs that returned a result",
	}, []string{
		"target_type",
		"result",
	})

	resultPollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "result_polls_total",
		Help:      "Count of result polling rounds",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the most recent completed run",
	}, []string{
		"target_type",
	})

	artifactWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "artifact_writes_total",
		Help:      "Count of local result artifact writes",
	}, []string{
		"result",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordPushFailure counts a status-push update that was dropped after a
// transport or server error.
func RecordPushFailure(endpoint string) {
	if Debug {
		log.Debug("metric inc",
			"m", "push_failures_total",
			"endpoint", endpoint,
		)
	}
	pushFailuresTotal.WithLabelValues(endpoint).Inc()
}

// RecordAPIError counts a classified API error by its HTTP status code.
func RecordAPIError(statusCode int) {
	apiErrorsTotal.WithLabelValues(fmt.Sprintf("%d", statusCode)).Inc()
}

// RecordRunTriggered counts a remote run trigger by target type
// (case/suite/monitor).
func RecordRunTriggered(targetType string) {
	if Debug {
		log.Debug("metric inc",
			"m", "runs_triggered_total",
			"target_type", targetType,
		)
	}
	runsTriggeredTotal.WithLabelValues(targetType).Inc()
}

// RecordRunCompleted records the outcome and duration of a completed remote
// run.
func RecordRunCompleted(targetType string, result string, duration time.Duration) {
	runsCompletedTotal.WithLabelValues(targetType, result).Inc()
	runDuration.WithLabelValues(targetType).Set(duration.Seconds())
}

// RecordPollAttempt counts one result polling round.
func RecordPollAttempt() {
	resultPollsTotal.Inc()
}

// RecordArtifactWrite counts a local artifact write by outcome.
func RecordArtifactWrite(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	artifactWritesTotal.WithLabelValues(outcome).Inc()
}
