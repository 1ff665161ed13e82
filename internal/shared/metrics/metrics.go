package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leaveApplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leave",
		Subsystem: "request",
		Name:      "applications_total",
		Help:      "Leave applications broken down by leave type and result.",
	}, []string{"leave_type", "result"})

	approvalDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leave",
		Subsystem: "approval",
		Name:      "decisions_total",
		Help:      "Approval engine decisions broken down by approver type, action and result.",
	}, []string{"approver_type", "action", "result"})

	balanceDebitedDays = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leave",
		Subsystem: "balance",
		Name:      "debited_days_total",
		Help:      "Days debited from the balance ledger at final approval.",
	}, []string{"leave_type"})

	balanceCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leave",
		Subsystem: "balance_cache",
		Name:      "requests_total",
		Help:      "Balance cache lookups broken down by hit/miss.",
	}, []string{"result"})

	txRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leave",
		Subsystem: "db",
		Name:      "tx_retries_total",
		Help:      "Serializable transaction retries broken down by operation.",
	}, []string{"operation"})
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func RecordApplication(leaveType string, err error) {
	leaveApplications.WithLabelValues(leaveType, result(err)).Inc()
}

func RecordDecision(approverType, action string, err error) {
	approvalDecisions.WithLabelValues(approverType, action, result(err)).Inc()
}

func RecordDebit(leaveType string, days int) {
	balanceDebitedDays.WithLabelValues(leaveType).Add(float64(days))
}

func RecordCacheRequest(hit bool) {
	r := "miss"
	if hit {
		r = "hit"
	}
	balanceCacheRequests.WithLabelValues(r).Inc()
}

func RecordTxRetry(operation string) {
	if operation == "" {
		operation = "other"
	}
	txRetries.WithLabelValues(operation).Inc()
}
