package main

import (
	"context"

	"github.com/cppla/network/config"
	"github.com/cppla/network/models"
	"github.com/cppla/network/routes"
	"github.com/cppla/network/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	sentryEnabled, err := utils.InitSentry(cfg)
	if err != nil {
		utils.Sugar.Warnf("sentry disabled: %v", err)
	}

	shutdownTracer, err := utils.InitTracer(context.Background(), cfg)
	if err != nil {
		utils.Sugar.Fatalf("init tracer: %v", err)
	}

	db := config.InitDatabase(models.All()...)

	r := routes.SetupRouter(db, routes.Options{Sentry: sentryEnabled})

	closeDB := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, shutdownTracer, utils.FlushSentry, closeDB); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
