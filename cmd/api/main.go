package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"NetsQRPay/internal/config"
	"NetsQRPay/internal/db"
	internalhttp "NetsQRPay/internal/http"
	"NetsQRPay/internal/nets"
	"NetsQRPay/internal/services"
	"NetsQRPay/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store.TransactionStore
	if cfg.DB.DSN != "" {
		pool, err := db.Connect(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("db connect failed: %v", err)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		go pg.Listen(ctx)
		st = pg
	} else {
		log.Printf("db.dsn is empty, using in-memory store")
		st = store.NewMemory()
	}

	txns := &services.TransactionService{
		Store:           st,
		Gateway:         nets.NewClient(cfg.Gateway.BaseURL),
		KeyID:           cfg.Gateway.KeyID,
		Secret:          cfg.Gateway.Secret,
		CallbackURL:     cfg.Gateway.CallbackURL,
		AmountCents:     cfg.Payment.AmountCents,
		Currency:        cfg.Payment.Currency,
		SourceAmount:    cfg.Payment.SourceAmount,
		TerminalID:      cfg.Payment.TerminalID,
		MerchantID:      cfg.Payment.MerchantID,
		InstitutionCode: cfg.Payment.InstitutionCode,
	}

	h := internalhttp.NewHandler(txns, st)
	srv := internalhttp.NewServer(h)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router,
	}

	go func() {
		log.Printf("api listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
}
