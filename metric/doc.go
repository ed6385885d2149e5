// Package metric exports benchmark measurements to Prometheus.
package metric
