// Package metrics counts the work done by the batch commands and writes it
// for the node exporter textfile collector.
package metrics
