package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"todotracker/config"
	"todotracker/internal/auth"
	"todotracker/internal/handler"
	"todotracker/internal/repository"
	"todotracker/internal/repository/memory"
	"todotracker/internal/repository/postgres"
	"todotracker/pkg/database"
)

type storage struct {
	users repository.UserRepository
	todos repository.TodoRepository
	tx    repository.Transactor
}

func openStorage(ctx context.Context, cfg *config.Config) (storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		store := memory.NewStore()
		return storage{users: store.Users(), todos: store.Todos(), tx: store}, nil
	}

	if err := database.Connect(cfg); err != nil {
		return storage{}, err
	}
	db := database.GetDB()
	if err := database.Migrate(ctx, db); err != nil {
		return storage{}, err
	}
	store := postgres.NewStore(db)
	return storage{users: store.Users(), todos: store.Todos(), tx: store}, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer database.Close()

	h := handler.NewHandler(cfg, store.users, store.todos, store.tx, auth.NewBcryptHasher(cfg.Security.BcryptCost))
	if cfg.Admin.Username != "" {
		if _, err := h.Users.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      h.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("server listening on :%s (env %s, storage %s)", cfg.Server.Port, cfg.Server.Env, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
