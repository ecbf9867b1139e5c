// Package prom records run metrics with the Prometheus client.
//
// A run is a batch job, so nothing is served over HTTP. The collector keeps
// its own registry and writes it to a node_exporter textfile once the run is
// done.
package prom
