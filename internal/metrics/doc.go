// Package metrics records build metrics behind a small Recorder interface.
//
// Components default to NoopRecorder so metrics stay optional. The CLI swaps
// in a PrometheusRecorder when a textfile path is configured and writes the
// registry after the build:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	proc := pipeline.NewProcessor(cfg).WithRecorder(rec)
//	...
//	_ = rec.WriteTextfile(cfg.Metrics.Textfile)
package metrics
