package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/cloud-atlas/pkg/models/domain"
	"golang.org/x/sync/errgroup"
)

const (
	// CPU utilization is a native metric; memory and disk come from
	// the in-guest agent and live in its own namespace with a wider
	// dimension set.
	cpuNamespace   = "AWS/EC2"
	agentNamespace = "CWAgent"

	cpuMetricName    = "CPUUtilization"
	memoryMetricName = "mem_used_percent"
	diskMetricName   = "disk_used_percent"

	metricPeriod = 60 * time.Second
	metricWindow = 60 * time.Minute
	statAverage  = "Average"

	// Fallbacks when the instance reports no usable root device. The
	// agent dimensions devices without the /dev/ prefix.
	defaultDevice    = "xvda1"
	defaultFSType    = "xfs"
	defaultMountPath = "/"
)

var (
	// ErrMissingInstanceID marks a precondition violation: no remote
	// call was made.
	ErrMissingInstanceID = errors.New("instance id is required")

	// ErrMetricsUnavailable wraps the first failure of the combined
	// metrics operation.
	ErrMetricsUnavailable = errors.New("unable to fetch metrics")
)

type Gateway interface {
	QueryMetric(ctx context.Context, q domain.MetricQuery) ([]float64, error)
	DescribeInstance(ctx context.Context, instanceID string) (*domain.Instance, error)
}

type Explorer interface {
	GetCPUUsage(ctx context.Context, instanceID string) ([]float64, error)
	GetMemoryUsage(ctx context.Context, instanceID, imageID, instanceType string) ([]float64, error)
	GetDiskUsage(ctx context.Context, instanceID, imageID, instanceType string) ([]float64, error)
	GetAllMetrics(ctx context.Context, instanceID, imageID, instanceType string) (*domain.InstanceMetrics, error)
}

type explorer struct {
	gw Gateway
}

func NewExplorer(gw Gateway) Explorer {
	return &explorer{gw: gw}
}

func (e *explorer) GetCPUUsage(ctx context.Context, instanceID string) ([]float64, error) {
	if instanceID == "" {
		return nil, ErrMissingInstanceID
	}
	return e.query(ctx, domain.MetricQuery{
		ID:         "cpuUsage",
		Namespace:  cpuNamespace,
		MetricName: cpuMetricName,
		Dimensions: []domain.MetricDimension{
			{Name: "InstanceId", Value: instanceID},
		},
	})
}

func (e *explorer) GetMemoryUsage(
	ctx context.Context,
	instanceID, imageID, instanceType string,
) ([]float64, error) {
	if instanceID == "" {
		return nil, ErrMissingInstanceID
	}
	return e.query(ctx, domain.MetricQuery{
		ID:         "memoryUsage",
		Namespace:  agentNamespace,
		MetricName: memoryMetricName,
		Dimensions: agentDimensions(instanceID, imageID, instanceType),
	})
}

// GetDiskUsage resolves the device dimensions from the instance's
// first block device mapping, falling back to the nominal root device
// when none is reported.
func (e *explorer) GetDiskUsage(
	ctx context.Context,
	instanceID, imageID, instanceType string,
) ([]float64, error) {
	if instanceID == "" {
		return nil, ErrMissingInstanceID
	}

	inst, err := e.gw.DescribeInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve disk devices for %s: %w", instanceID, err)
	}

	dims := agentDimensions(instanceID, imageID, instanceType)
	dims = append(dims,
		domain.MetricDimension{Name: "device", Value: rootDevice(inst)},
		domain.MetricDimension{Name: "fstype", Value: defaultFSType},
		domain.MetricDimension{Name: "path", Value: defaultMountPath},
	)
	return e.query(ctx, domain.MetricQuery{
		ID:         "diskUsage",
		Namespace:  agentNamespace,
		MetricName: diskMetricName,
		Dimensions: dims,
	})
}

// GetAllMetrics issues the three per-metric queries concurrently and
// assembles the combined view. Any single failure fails the whole
// operation, wrapped in ErrMetricsUnavailable.
func (e *explorer) GetAllMetrics(
	ctx context.Context,
	instanceID, imageID, instanceType string,
) (*domain.InstanceMetrics, error) {
	if instanceID == "" {
		return nil, ErrMissingInstanceID
	}

	result := &domain.InstanceMetrics{
		InstanceID:   instanceID,
		ImageID:      imageID,
		InstanceType: instanceType,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		values, err := e.GetCPUUsage(ctx, instanceID)
		result.CPUUsage = values
		return err
	})
	group.Go(func() error {
		values, err := e.GetMemoryUsage(ctx, instanceID, imageID, instanceType)
		result.MemoryUsage = values
		return err
	})
	group.Go(func() error {
		values, err := e.GetDiskUsage(ctx, instanceID, imageID, instanceType)
		result.DiskUsage = values
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetricsUnavailable, err)
	}
	return result, nil
}

func (e *explorer) query(ctx context.Context, q domain.MetricQuery) ([]float64, error) {
	q.Period = metricPeriod
	q.Window = metricWindow
	q.Stat = statAverage

	values, err := e.gw.QueryMetric(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s/%s: %w", q.Namespace, q.MetricName, err)
	}
	if values == nil {
		values = []float64{}
	}
	return values, nil
}

func agentDimensions(instanceID, imageID, instanceType string) []domain.MetricDimension {
	return []domain.MetricDimension{
		{Name: "InstanceId", Value: instanceID},
		{Name: "ImageId", Value: imageID},
		{Name: "InstanceType", Value: instanceType},
	}
}

func rootDevice(inst *domain.Instance) string {
	if inst == nil || len(inst.Devices) == 0 {
		return defaultDevice
	}
	name := strings.TrimPrefix(inst.Devices[0].DeviceName, "/dev/")
	if name == "" {
		return defaultDevice
	}
	return name
}
