package service

import "github.com/prometheus/client_golang/prometheus"

var (
	taskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_task_transitions_total",
			Help: "Task status changes that were applied",
		},
		[]string{"from", "to"},
	)
	taskTransitionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_task_transitions_rejected_total",
			Help: "Task updates refused by the status rule",
		},
		[]string{"from"},
	)
	assignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_assignments_total",
			Help: "Assignment relation changes by operation",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(taskTransitions, taskTransitionsRejected, assignments)
}

func statusLabel(s string) string {
	if s == "" {
		return "unset"
	}
	return s
}
