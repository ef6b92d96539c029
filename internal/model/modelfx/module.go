package modelfx

import (
	"context"

	"github.com/0x5457/signclip/internal/config"
	"github.com/0x5457/signclip/internal/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params represents dependencies for loading the model bundle
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.File
	Logger    *zap.Logger
}

// NewBundle loads the model bundle and releases it on shutdown
func NewBundle(params Params) (*model.Bundle, error) {
	bundle, err := model.Load(context.Background(), params.Config, params.Logger)
	if err != nil {
		return nil, err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := bundle.Close(); err != nil {
				return err
			}
			return model.DestroyEnvironment()
		},
	})
	return bundle, nil
}

// Module provides the model bundle
var Module = fx.Module("model",
	fx.Provide(NewBundle),
)
