package controllers_fx

import (
	"go.uber.org/fx"
	"reelcraft/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewGenerationController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewSessionController),
	fx.Provide(controllers.NewAdminController))
