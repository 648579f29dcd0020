package store

import (
	"github.com/staffdir/staffdir/pkg/model"
)

// DeviceStore abstracts device storage operations
type DeviceStore interface {
	// UpsertDevice creates or updates a device keyed by serial number.
	// Serial numbers are normalized to upper case before lookup.
	UpsertDevice(device *model.Device) error

	// ListDevices returns all devices ordered by serial number.
	ListDevices() ([]model.Device, error)
}
