package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindBatch  = "batch"
	kindNotice = "notice"

	outcomeSent   = "sent"
	outcomeFailed = "failed"
)

var sendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sms_dispatch_total",
	Help: "Outbound texts by kind and outcome.",
}, []string{"kind", "outcome"})
