// Package metrics holds the per-run response time collection and its summary.
//
// A [Collector] is the only state shared between client tasks. Tasks call
// [Collector.Record] concurrently; the driver reads [Collector.Summary] after
// every task has returned:
//
//	collector := metrics.NewCollector(clients)
//	collector.Record(time.Since(start))
//
//	summary, ok := collector.Summary()
//	if !ok {
//		// no successful requests
//	}
//
// Only mean, max and min are computed. The collector keeps raw samples rather
// than a histogram so the mean is exact.
package metrics
