package awsclient

import (
	"context"
	"time"

	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/samber/do/v2"
)

const loadTimeout = 10 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (aws.Config, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return Load(ctx, cfg)
	})
}
