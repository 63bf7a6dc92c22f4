package registry

import (
	"context"
	"fmt"

	"github.com/Carbonhell/SmartDisplay/internal/registry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iot"
)

// IoTRegistry lists the display devices registered as IoT things.
type IoTRegistry struct {
	client iot.ListThingsAPIClient
}

func NewIoTRegistry(client iot.ListThingsAPIClient) registry.Registry {
	return &IoTRegistry{client: client}
}

func (r *IoTRegistry) ListDevices(ctx context.Context) ([]registry.Device, error) {
	paginator := iot.NewListThingsPaginator(r.client, &iot.ListThingsInput{})
	var devices []registry.Device
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list things: %w", err)
		}
		for _, thing := range page.Things {
			devices = append(devices, registry.Device{
				Name:       aws.ToString(thing.ThingName),
				Attributes: thing.Attributes,
			})
		}
	}
	return devices, nil
}
