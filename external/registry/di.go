package registry

import (
	"github.com/Carbonhell/SmartDisplay/external/awsclient"
	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/Carbonhell/SmartDisplay/internal/registry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iot"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (registry.Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		awsCfg := do.MustInvoke[aws.Config](i)
		client := iot.NewFromConfig(awsCfg, func(o *iot.Options) {
			o.BaseEndpoint = awsclient.BaseEndpoint(cfg)
		})
		return NewIoTRegistry(client), nil
	})
}
