package inventory

import (
	"context"
	"fmt"

	"github.com/de-tools/cloud-atlas/pkg/models/domain"
)

// Gateway is the slice of the compute provider the correlator needs.
// Implementations flatten any provider-side nesting and pagination.
type Gateway interface {
	ListInstances(ctx context.Context) ([]domain.Instance, error)
	ListInstanceTypes(ctx context.Context, instanceTypes []string) (map[string]domain.InstanceTypeSpec, error)
	ListVolumes(ctx context.Context, volumeIDs []string) (map[string]domain.Volume, error)
}

type Explorer interface {
	ListInstanceViews(ctx context.Context) ([]domain.InstanceView, error)
	ListInstanceSummaries(ctx context.Context) ([]domain.InstanceSummary, error)
}

type explorer struct {
	gw Gateway
}

func NewExplorer(gw Gateway) Explorer {
	return &explorer{gw: gw}
}

// ListInstanceViews joins every visible instance with its type spec
// and attached volumes. Views come back in provider return order, one
// per instance. Any gateway failure aborts the whole pass; a missing
// spec or volume record never does.
func (e *explorer) ListInstanceViews(ctx context.Context) ([]domain.InstanceView, error) {
	instances, err := e.gw.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	views := make([]domain.InstanceView, 0, len(instances))
	if len(instances) == 0 {
		return views, nil
	}

	specs, err := e.fetchTypeSpecs(ctx, instances)
	if err != nil {
		return nil, err
	}
	volumes, err := e.fetchVolumes(ctx, instances)
	if err != nil {
		return nil, err
	}

	for _, inst := range instances {
		views = append(views, buildView(inst, specs, volumes))
	}
	return views, nil
}

// ListInstanceSummaries returns the identity triple needed to target
// an instance in a metric query.
func (e *explorer) ListInstanceSummaries(ctx context.Context) ([]domain.InstanceSummary, error) {
	instances, err := e.gw.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	summaries := make([]domain.InstanceSummary, 0, len(instances))
	for _, inst := range instances {
		summaries = append(summaries, domain.InstanceSummary{
			InstanceID:   inst.ID,
			ImageID:      inst.ImageID,
			InstanceType: inst.Type,
		})
	}
	return summaries, nil
}

func (e *explorer) fetchTypeSpecs(
	ctx context.Context,
	instances []domain.Instance,
) (map[string]domain.InstanceTypeSpec, error) {
	var instanceTypes []string
	seen := map[string]struct{}{}
	for _, inst := range instances {
		if inst.Type == "" {
			continue
		}
		if _, ok := seen[inst.Type]; ok {
			continue
		}
		seen[inst.Type] = struct{}{}
		instanceTypes = append(instanceTypes, inst.Type)
	}

	if len(instanceTypes) == 0 {
		return map[string]domain.InstanceTypeSpec{}, nil
	}

	specs, err := e.gw.ListInstanceTypes(ctx, instanceTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance types: %w", err)
	}
	return specs, nil
}

func (e *explorer) fetchVolumes(
	ctx context.Context,
	instances []domain.Instance,
) (map[string]domain.Volume, error) {
	var volumeIDs []string
	seen := map[string]struct{}{}
	for _, inst := range instances {
		for _, dev := range inst.Devices {
			if dev.VolumeID == "" {
				continue
			}
			if _, ok := seen[dev.VolumeID]; ok {
				continue
			}
			seen[dev.VolumeID] = struct{}{}
			volumeIDs = append(volumeIDs, dev.VolumeID)
		}
	}

	if len(volumeIDs) == 0 {
		return map[string]domain.Volume{}, nil
	}

	volumes, err := e.gw.ListVolumes(ctx, volumeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to describe volumes: %w", err)
	}
	return volumes, nil
}

func buildView(
	inst domain.Instance,
	specs map[string]domain.InstanceTypeSpec,
	volumes map[string]domain.Volume,
) domain.InstanceView {
	view := domain.InstanceView{
		InstanceID:   inst.ID,
		InstanceType: inst.Type,
		State:        inst.State,
		PublicIP:     inst.PublicIP,
		PrivateIP:    inst.PrivateIP,
		LaunchTime:   inst.LaunchTime,
		Devices:      make([]domain.AttachedDevice, 0, len(inst.Devices)),
		Tags:         inst.Tags,
	}
	if view.Tags == nil {
		view.Tags = map[string]string{}
	}

	if spec, ok := specs[inst.Type]; ok {
		vcpus := spec.DefaultVCPUs
		memGiB := float64(spec.MemoryMiB) / 1024
		view.VCPUs = &vcpus
		view.MemoryGiB = &memGiB
	}

	for _, dev := range inst.Devices {
		if dev.VolumeID == "" {
			continue
		}
		attached := domain.AttachedDevice{
			DeviceName: dev.DeviceName,
			VolumeID:   dev.VolumeID,
		}
		if vol, ok := volumes[dev.VolumeID]; ok {
			size := vol.SizeGiB
			attached.SizeGiB = &size
		}
		view.Devices = append(view.Devices, attached)
	}
	return view
}
