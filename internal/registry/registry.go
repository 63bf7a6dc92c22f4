package registry

import "context"

const (
	AttributeBuilding = "building"
	AttributeRoom     = "room"
)

type Device struct {
	Name       string
	Attributes map[string]string
}

type Registry interface {
	ListDevices(ctx context.Context) ([]Device, error)
}
