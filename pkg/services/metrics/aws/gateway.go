package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/cloud-atlas/pkg/models/domain"
	"github.com/de-tools/cloud-atlas/pkg/services/metrics"
)

type gateway struct {
	cw  *cloudwatch.Client
	ec2 *ec2.Client
	now func() time.Time
}

func NewGateway(cfg awssdk.Config) metrics.Gateway {
	return &gateway{
		cw:  cloudwatch.NewFromConfig(cfg),
		ec2: ec2.NewFromConfig(cfg),
		now: time.Now,
	}
}

// QueryMetric runs one GetMetricData call over the trailing window of
// the query and returns the sample values of its single result. No
// datapoints is not an error; the caller gets an empty series.
func (g *gateway) QueryMetric(ctx context.Context, q domain.MetricQuery) ([]float64, error) {
	end := g.now()
	start := end.Add(-q.Window)

	dims := make([]cwtypes.Dimension, 0, len(q.Dimensions))
	for _, d := range q.Dimensions {
		dims = append(dims, cwtypes.Dimension{
			Name:  awssdk.String(d.Name),
			Value: awssdk.String(d.Value),
		})
	}

	input := &cloudwatch.GetMetricDataInput{
		StartTime: awssdk.Time(start),
		EndTime:   awssdk.Time(end),
		MetricDataQueries: []cwtypes.MetricDataQuery{
			{
				Id: awssdk.String(q.ID),
				MetricStat: &cwtypes.MetricStat{
					Metric: &cwtypes.Metric{
						Namespace:  awssdk.String(q.Namespace),
						MetricName: awssdk.String(q.MetricName),
						Dimensions: dims,
					},
					Period: awssdk.Int32(int32(q.Period / time.Second)),
					Stat:   awssdk.String(q.Stat),
				},
			},
		},
	}

	output, err := g.cw.GetMetricData(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get metric data: %w", err)
	}

	if len(output.MetricDataResults) == 0 {
		return []float64{}, nil
	}
	values := output.MetricDataResults[0].Values
	if values == nil {
		values = []float64{}
	}
	return values, nil
}

func (g *gateway) DescribeInstance(ctx context.Context, instanceID string) (*domain.Instance, error) {
	output, err := g.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", instanceID, err)
	}

	for _, reservation := range output.Reservations {
		for _, inst := range reservation.Instances {
			mapped := mapInstance(inst)
			return &mapped, nil
		}
	}
	return nil, fmt.Errorf("instance %s not found", instanceID)
}

func mapInstance(inst ec2types.Instance) domain.Instance {
	mapped := domain.Instance{
		ID:      awssdk.ToString(inst.InstanceId),
		ImageID: awssdk.ToString(inst.ImageId),
		Type:    string(inst.InstanceType),
	}
	for _, device := range inst.BlockDeviceMappings {
		mapping := domain.DeviceMapping{
			DeviceName: awssdk.ToString(device.DeviceName),
		}
		if device.Ebs != nil {
			mapping.VolumeID = awssdk.ToString(device.Ebs.VolumeId)
		}
		mapped.Devices = append(mapped.Devices, mapping)
	}
	return mapped
}
