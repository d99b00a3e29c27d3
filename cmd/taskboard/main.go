package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/repository/memory"
	"taskboard/internal/service"
	"taskboard/internal/web"
)

const digestJobTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	users, tasks, closeStore, err := openStores(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	accountSvc := service.NewAccountService(users, service.NewPasswordHasher(bcrypt.DefaultCost))
	taskSvc := service.NewTaskService(tasks)
	digestSvc := service.NewDigestService(users, tasks)

	sessions := web.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	server := web.NewServer(accountSvc, taskSvc, digestSvc, sessions, web.Options{
		SecureCookies: cfg.CookieSecure,
		AccessLog:     true,
	})

	scheduler, err := scheduleDigests(cfg, digestSvc)
	if err != nil {
		log.Fatalf("schedule digests: %v", err)
	}

	go func() {
		if err := server.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()
	log.Println("Task board started.")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
			"scheduler": scheduler.Stop,
			"database": closeStore,
		},
	)

	exitCode := <-wait
	log.Printf("Shutdown complete with exit code: %d", exitCode)
	os.Exit(exitCode)
}

// openStores picks the in-memory store or SQLite according to DATABASE_URL.
func openStores(cfg config.Config) (service.UserStore, service.TaskStore, gfshutdown.Operation, error) {
	if cfg.UsesMemoryStore() {
		log.Println("[info] using in-memory store, data is lost on exit")
		store := memory.NewStore()
		return store.Users(), store.Tasks(), func(context.Context) error { return nil }, nil
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, err
	}
	log.Printf("[info] using sqlite database %s", cfg.DatabaseURL)

	closeDB := func(context.Context) error {
		return sqlDB.Close()
	}
	return repository.NewUserRepository(db), repository.NewTaskRepository(db), closeDB, nil
}

// scheduleDigests registers the digest job for every configured trigger.
// Without a trigger the scheduler is never started.
func scheduleDigests(cfg config.Config, digests *service.DigestService) (*service.SchedulerService, error) {
	scheduler := service.NewSchedulerService(time.Local, digestJobTimeout)
	job := func(ctx context.Context) error {
		return digests.LogAll(ctx, time.Now())
	}

	if interval := cfg.DigestInterval(); interval > 0 {
		if _, err := scheduler.ScheduleInterval("digest", interval, job); err != nil {
			return nil, err
		}
	}
	if cfg.DigestAt != "" {
		if _, err := scheduler.ScheduleDaily("digest", cfg.DigestAt, job); err != nil {
			return nil, err
		}
	}
	if !scheduler.Start() {
		log.Println("[info] no digest trigger configured, scheduler idle")
	}
	return scheduler, nil
}
