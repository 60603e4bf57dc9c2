package api

import "github.com/de-tools/cloud-atlas/pkg/models/domain"

type InstanceMetrics struct {
	InstanceID   string    `json:"instanceId"`
	ImageID      string    `json:"imageId"`
	InstanceType string    `json:"instanceType"`
	CPUUsage     []float64 `json:"cpuUsage"`
	MemoryUsage  []float64 `json:"memoryUsage"`
	DiskUsage    []float64 `json:"diskUsage"`
}

func NewInstanceMetrics(m domain.InstanceMetrics) InstanceMetrics {
	return InstanceMetrics{
		InstanceID:   m.InstanceID,
		ImageID:      m.ImageID,
		InstanceType: m.InstanceType,
		CPUUsage:     m.CPUUsage,
		MemoryUsage:  m.MemoryUsage,
		DiskUsage:    m.DiskUsage,
	}
}
