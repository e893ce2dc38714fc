package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/yukikurage/team-task-tracker/internal/config"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/logger"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	fullName := flag.String("full-name", "", "admin full name")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	input := services.CreateUserInput{
		Username: *username,
		Email:    *email,
		Password: *password,
	}
	if *fullName != "" {
		input.FullName = fullName
	}

	userService := services.NewUserService(repository.NewUserRepository(db), zlog)
	admin, err := userService.BootstrapAdmin(input)
	if err != nil {
		zlog.Fatal("Failed to create admin", zap.Error(err))
	}

	fmt.Printf("Admin %s created with id %s\n", admin.Username, admin.ID)
}
