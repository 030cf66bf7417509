// Entry point; loads config, wires stores and services, starts the HTTP
// server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tably/internal/auth"
	"tably/internal/config"
	httptransport "tably/internal/http"
	"tably/internal/infra"
	"tably/internal/modules/audit"
	"tably/internal/modules/menu"
	"tably/internal/modules/order"
	"tably/internal/modules/table"
	"tably/internal/modules/tenant"
	"tably/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := infra.NewLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	channel := notify.NewRedisChannel(redisClient, log)

	auditStore := audit.NewStore(dbPool, log)

	tenantStore := tenant.NewStore(dbPool)
	tenantSvc := tenant.NewService(tenantStore, auditStore, log)

	tableStore := table.NewStore(dbPool)
	tableSvc := table.NewService(tableStore, cfg.QR.PublicBaseURL)

	menuStore := menu.NewStore(dbPool)
	menuSvc := menu.NewService(menuStore)

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, tenantSvc, tableSvc, channel, log)

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, 12*time.Hour)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Orders:  orderSvc,
		Menu:    menuSvc,
		Tables:  tableSvc,
		Tenants: tenantSvc,
		Audits:  auditStore,
		Channel: channel,
		Tokens:  tokens,
		Log:     log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("tably-api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
}
