package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/cloud-atlas/pkg/models/domain"
	"github.com/de-tools/cloud-atlas/pkg/services/inventory"
)

type gateway struct {
	client *ec2.Client
}

func NewGateway(cfg awssdk.Config) inventory.Gateway {
	return &gateway{client: ec2.NewFromConfig(cfg)}
}

// ListInstances flattens the reservation/instance nesting of
// DescribeInstances and follows pagination to exhaustion.
func (g *gateway) ListInstances(ctx context.Context) ([]domain.Instance, error) {
	var instances []domain.Instance

	paginator := ec2.NewDescribeInstancesPaginator(g.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, mapInstance(inst))
			}
		}
	}
	return instances, nil
}

func (g *gateway) ListInstanceTypes(
	ctx context.Context,
	instanceTypes []string,
) (map[string]domain.InstanceTypeSpec, error) {
	input := &ec2.DescribeInstanceTypesInput{
		InstanceTypes: make([]types.InstanceType, 0, len(instanceTypes)),
	}
	for _, t := range instanceTypes {
		input.InstanceTypes = append(input.InstanceTypes, types.InstanceType(t))
	}

	specs := make(map[string]domain.InstanceTypeSpec, len(instanceTypes))
	paginator := ec2.NewDescribeInstanceTypesPaginator(g.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instance types: %w", err)
		}
		for _, info := range page.InstanceTypes {
			spec := domain.InstanceTypeSpec{Type: string(info.InstanceType)}
			if info.VCpuInfo != nil {
				spec.DefaultVCPUs = awssdk.ToInt32(info.VCpuInfo.DefaultVCpus)
			}
			if info.MemoryInfo != nil {
				spec.MemoryMiB = awssdk.ToInt64(info.MemoryInfo.SizeInMiB)
			}
			specs[spec.Type] = spec
		}
	}
	return specs, nil
}

func (g *gateway) ListVolumes(ctx context.Context, volumeIDs []string) (map[string]domain.Volume, error) {
	volumes := make(map[string]domain.Volume, len(volumeIDs))

	paginator := ec2.NewDescribeVolumesPaginator(g.client, &ec2.DescribeVolumesInput{
		VolumeIds: volumeIDs,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe volumes: %w", err)
		}
		for _, vol := range page.Volumes {
			id := awssdk.ToString(vol.VolumeId)
			if id == "" {
				continue
			}
			volumes[id] = domain.Volume{
				ID:      id,
				SizeGiB: awssdk.ToInt32(vol.Size),
			}
		}
	}
	return volumes, nil
}

func mapInstance(inst types.Instance) domain.Instance {
	mapped := domain.Instance{
		ID:         awssdk.ToString(inst.InstanceId),
		ImageID:    awssdk.ToString(inst.ImageId),
		Type:       string(inst.InstanceType),
		PublicIP:   awssdk.ToString(inst.PublicIpAddress),
		PrivateIP:  awssdk.ToString(inst.PrivateIpAddress),
		LaunchTime: inst.LaunchTime,
		Tags:       map[string]string{},
	}
	if inst.State != nil {
		mapped.State = domain.InstanceState(inst.State.Name)
	}
	for _, tag := range inst.Tags {
		key := awssdk.ToString(tag.Key)
		if key == "" {
			continue
		}
		mapped.Tags[key] = awssdk.ToString(tag.Value)
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
