package publisher

import (
	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/Carbonhell/SmartDisplay/internal/publisher"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (publisher.Publisher, error) {
		c := do.MustInvoke[*config.Config](i)
		client, err := NewMTLSClient(TLSFiles{
			CertFile:   c.IoTCertFile,
			KeyFile:    c.IoTKeyFile,
			RootCAFile: c.IoTRootCAFile,
		})
		if err != nil {
			return nil, err
		}
		return NewHTTPPublisher(c.IoTDataEndpoint, client), nil
	})
}
