package api

import (
	"fmt"
	"time"

	"github.com/de-tools/cloud-atlas/pkg/models/domain"
)

// NotAvailable is rendered wherever the provider had no matching
// record for a joined field. Absence lives as nil in the domain model
// and only becomes a string at this boundary.
const NotAvailable = "N/A"

type CPU struct {
	VCPUs any `json:"vCPUs"`
}

type Memory struct {
	SizeInGiB any `json:"SizeInGiB"`
}

type StorageDevice struct {
	DeviceName string `json:"DeviceName"`
	VolumeID   string `json:"VolumeId"`
	SizeInGiB  any    `json:"SizeInGiB"`
}

type Storage struct {
	Devices []StorageDevice `json:"Devices"`
}

type InstanceView struct {
	InstanceID       string            `json:"InstanceId"`
	InstanceType     string            `json:"InstanceType"`
	State            string            `json:"State"`
	PublicIPAddress  string            `json:"PublicIpAddress,omitempty"`
	PrivateIPAddress string            `json:"PrivateIpAddress,omitempty"`
	LaunchTime       *time.Time        `json:"LaunchTime,omitempty"`
	CPU              CPU               `json:"CPU"`
	Memory           Memory            `json:"Memory"`
	Storage          Storage           `json:"Storage"`
	Tags             map[string]string `json:"Tags"`
}

type InstanceSummary struct {
	InstanceID   string `json:"InstanceId"`
	ImageID      string `json:"ImageId"`
	InstanceType string `json:"InstanceType"`
}

func NewInstanceView(v domain.InstanceView) InstanceView {
	view := InstanceView{
		InstanceID:       v.InstanceID,
		InstanceType:     v.InstanceType,
		State:            string(v.State),
		PublicIPAddress:  v.PublicIP,
		PrivateIPAddress: v.PrivateIP,
		LaunchTime:       v.LaunchTime,
		CPU:              CPU{VCPUs: NotAvailable},
		Memory:           Memory{SizeInGiB: NotAvailable},
		Storage:          Storage{Devices: make([]StorageDevice, 0, len(v.Devices))},
		Tags:             v.Tags,
	}
	if view.Tags == nil {
		view.Tags = map[string]string{}
	}
	if v.VCPUs != nil {
		view.CPU.VCPUs = *v.VCPUs
	}
	if v.MemoryGiB != nil {
		view.Memory.SizeInGiB = fmt.Sprintf("%.2f", *v.MemoryGiB)
	}
	for _, d := range v.Devices {
		device := StorageDevice{
			DeviceName: d.DeviceName,
			VolumeID:   d.VolumeID,
			SizeInGiB:  any(NotAvailable),
		}
		if d.SizeGiB != nil {
			device.SizeInGiB = *d.SizeGiB
		}
		view.Storage.Devices = append(view.Storage.Devices, device)
	}
	return view
}

func NewInstanceSummary(s domain.InstanceSummary) InstanceSummary {
	return InstanceSummary{
		InstanceID:   s.InstanceID,
		ImageID:      s.ImageID,
		InstanceType: s.InstanceType,
	}
}
