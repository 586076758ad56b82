package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "busline/internal/config"
	router "busline/internal/http"
	h "busline/internal/http/handlers"
	"busline/internal/repositories"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	users := repositories.UserRepository{DB: db}
	history := repositories.BookingHistoryRepository{DB: db}

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	if err := users.EnsureSchema(schemaCtx); err != nil {
		log.Fatalf("Gagal membuat tabel users: %v", err)
	}
	if err := history.EnsureSchema(schemaCtx); err != nil {
		log.Fatalf("Gagal membuat tabel booking_history: %v", err)
	}
	cancelSchema()

	var events services.EventPublisher = services.LogPublisher{}
	if len(env.KafkaBrokers) > 0 {
		kp, err := services.NewKafkaPublisher(env.KafkaBrokers, env.KafkaTopic)
		if err != nil {
			log.Fatalf("Gagal menyiapkan kafka: %v", err)
		}
		events = kp
		log.Printf("Event booking dikirim ke kafka topic=%s", env.KafkaTopic)
	}
	defer events.Close()

	drafts := services.NewDraftRegistry()
	drafts.IdleTTL = env.DraftIdleTTL
	drafts.MaxPerUser = env.MaxDraftsPerUser
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go drafts.RunSweeper(sweepCtx, time.Minute)
	trips := services.TripService{}
	hs := &h.Handlers{
		DB: db,
		Auth: services.AuthService{
			Users:   users,
			Secret:  []byte(env.JWTSecret),
			TTL:     env.JWTTTL,
			Revoked: services.NewRevocationList(),
			Drafts:  drafts,
		},
		Drafts: drafts,
		Payments: services.PaymentService{
			History: history,
			Events:  events,
			Delay:   env.PaymentDelay,
			TaxRate: env.TaxRate,
		},
		History:   services.BookingHistoryService{History: history},
		Trips:     trips,
		Dashboard: services.DashboardService{Drafts: drafts, Trips: trips},
	}

	if env.AdminEmail != "" {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := hs.Auth.EnsureAdmin(seedCtx, env.AdminEmail, env.AdminPassword)
		cancelSeed()
		switch {
		case err != nil:
			log.Fatalf("Gagal membuat admin awal: %v", err)
		case created:
			log.Printf("Admin awal dibuat: %s", env.AdminEmail)
		}
	}

	r := router.NewRouter(env, hs)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown server gagal: %v", err)
	}

	log.Println("Server berhenti dengan aman.")
}
