// Package sink turns metric and log records into InfluxDB writes.
//
// Encoding:
//   - Counters and gauges write a "value" field; sets write the number of
//     unique values.
//   - Aggregated histograms write bucket_<bound>, count and sum; aggregated
//     summaries write quantile_<q>, count and sum.
//   - Distributions write min, max, median, avg, sum, count and
//     quantile_0.95 over their samples weighted by sample rate.
//   - Logs go to the "<namespace>.vector" measurement with metric_type=logs.
//
// Every number written for a metric is a float field.
//
// Usage:
//
//	w, _, err := influxdb.NewWriter(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	s := sink.New(w, sink.Options{Namespace: cfg.InfluxDB.Namespace}, sink.NewMetrics(registry))
//	s.SetLogger(log)
//	err = s.WriteMetrics(ctx, metrics)
package sink
