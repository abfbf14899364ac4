package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	DispatchLatency     = metric.NewHistogram("1m1s")
	MessageSize         = metric.NewHistogram("10s1s")
	SentPerSecond       = metric.NewCounter("10s1s")
	DeliveredPerSecond  = metric.NewCounter("10s1s")
	DroppedPerSecond    = metric.NewCounter("10s1s")
	DuplicatedPerSecond = metric.NewCounter("10s1s")
	LinkEventsPerSecond = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("weft:MessageSize", MessageSize)

	expvar.Publish("weft:Sent/s", SentPerSecond)
	expvar.Publish("weft:Delivered/s", DeliveredPerSecond)
	expvar.Publish("weft:Dropped/s", DroppedPerSecond)
	expvar.Publish("weft:Duplicated/s", DuplicatedPerSecond)
	expvar.Publish("weft:LinkEvents/s", LinkEventsPerSecond)
	expvar.Publish("weft:DispatchLatency (µs)", DispatchLatency)
}
