package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskhub/modules/api"
	"github.com/example/taskhub/modules/auth"
	"github.com/example/taskhub/modules/cache"
	"github.com/example/taskhub/modules/eventbus"
	"github.com/example/taskhub/modules/notify"
	"github.com/example/taskhub/modules/reminder"
	"github.com/example/taskhub/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== TaskHub ===")

	// The database handle is opened once here and passed down to the
	// modules that need it.
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	busModule := eventbus.NewModule()
	cacheModule := cache.NewModule(redisAddr())
	taskModule := task.NewModule(db, cacheModule, busModule)
	notifyModule := notify.NewModule()

	app.Register(busModule)
	app.Register(cacheModule)
	app.Register(auth.NewModule(db))
	app.Register(taskModule)
	app.Register(notifyModule)
	app.Register(reminder.NewModule(taskModule, notifyModule, busModule))
	app.Register(api.NewModule(taskModule, notifyModule))

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
			"database": func(_ context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// openDatabase opens the SQLite database shared by the auth and task
// modules.
func openDatabase() (*gorm.DB, error) {
	path := os.Getenv("TASKHUB_DB_PATH")
	if path == "" {
		path = "taskhub.db"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  GET    /                      - Liveness probe")
	log.Println("  GET    /health                - Health check")
	log.Println("  POST   /api/users             - Register a new user")
	log.Println("  POST   /api/users/login       - Login and get tokens")
	log.Println("  POST   /api/users/refresh     - Refresh access token")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/users/profile     - Current user profile")
	log.Println("  POST   /api/tasks             - Create a task")
	log.Println("  GET    /api/tasks             - List tasks (?sorted=true for display order)")
	log.Println("  PUT    /api/tasks/:id         - Update a task")
	log.Println("  DELETE /api/tasks/:id         - Delete a task")
	log.Println("  PUT    /api/tasks/:id/toggle-complete - Toggle completion")
	log.Println("  PUT    /api/tasks/:id/toggle-pin      - Toggle pin")
	log.Println("  GET    /ws?token=...          - WebSocket reminder delivery")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
