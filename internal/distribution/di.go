package distribution

import (
	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/Carbonhell/SmartDisplay/internal/publisher"
	"github.com/Carbonhell/SmartDisplay/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Job, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.EventRepository](i)
		pub := do.MustInvoke[publisher.Publisher](i)
		opts := publisher.Options{
			Retain: cfg.PublishRetain,
			QoS:    publisher.QoS(cfg.PublishQoS),
		}
		return NewJob(repo, pub, opts, cfg.DistributionConcurrency), nil
	})
}
