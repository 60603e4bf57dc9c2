package domain

import "time"

type InstanceState string

const (
	InstanceStatePending      InstanceState = "pending"
	InstanceStateRunning      InstanceState = "running"
	InstanceStateStopping     InstanceState = "stopping"
	InstanceStateStopped      InstanceState = "stopped"
	InstanceStateShuttingDown InstanceState = "shutting-down"
	InstanceStateTerminated   InstanceState = "terminated"
)

// DeviceMapping is a block device entry as reported by the provider.
// VolumeID is empty for ephemeral devices with no attached volume.
type DeviceMapping struct {
	DeviceName string
	VolumeID   string
}

type Instance struct {
	ID         string
	ImageID    string
	Type       string
	State      InstanceState
	PublicIP   string
	PrivateIP  string
	LaunchTime *time.Time
	Tags       map[string]string
	Devices    []DeviceMapping
}

// InstanceTypeSpec is the capability sheet for one instance type.
type InstanceTypeSpec struct {
	Type         string
	DefaultVCPUs int32
	MemoryMiB    int64
}

type Volume struct {
	ID      string
	SizeGiB int32
}

// AttachedDevice is a device mapping joined with its volume record.
// SizeGiB is nil when the volume could not be resolved.
type AttachedDevice struct {
	DeviceName string
	VolumeID   string
	SizeGiB    *int32
}

// InstanceView is the composite of an instance, its type capabilities
// and its attached storage. VCPUs and MemoryGiB are nil when no spec
// exists for the instance type.
type InstanceView struct {
	InstanceID   string
	InstanceType string
	State        InstanceState
	PublicIP     string
	PrivateIP    string
	LaunchTime   *time.Time
	VCPUs        *int32
	MemoryGiB    *float64
	Devices      []AttachedDevice
	Tags         map[string]string
}

// InstanceSummary is the minimal identity needed to target an
// instance in a metric query.
type InstanceSummary struct {
	InstanceID   string
	ImageID      string
	InstanceType string
}
