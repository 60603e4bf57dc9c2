package domain

import "time"

type MetricDimension struct {
	Name  string
	Value string
}

// MetricQuery describes one time-series lookup. Window is the trailing
// interval ending at "now"; Period is the bucket size.
type MetricQuery struct {
	ID         string
	Namespace  string
	MetricName string
	Dimensions []MetricDimension
	Period     time.Duration
	Window     time.Duration
	Stat       string
}

// InstanceMetrics bundles the three utilization series for one
// instance. Slices are empty, never nil, when the provider reported
// no datapoints.
type InstanceMetrics struct {
	InstanceID   string
	ImageID      string
	InstanceType string
	CPUUsage     []float64
	MemoryUsage  []float64
	DiskUsage    []float64
}
