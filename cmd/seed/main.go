package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"note-keeper/internal/config"
	"note-keeper/internal/repository/sqlite"
	"note-keeper/internal/service"
)

type seedUser struct {
	username string
	email    string
	password string
	notes    [][2]string
}

var seedUsers = []seedUser{
	{
		username: "Alice",
		email:    "alice@example.com",
		password: "password1",
		notes: [][2]string{
			{"Shopping List", "Milk, Bread, Eggs, Coffee"},
			{"Work Tasks", "Finish project report, Email John"},
		},
	},
	{
		username: "Bob",
		email:    "bob@example.com",
		password: "password2",
		notes: [][2]string{
			{"Ideas", "Start a new blog about cooking"},
		},
	},
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db, logger); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	userRepo := sqlite.NewUserRepository(db)
	noteRepo := sqlite.NewNoteRepository(db)

	// sessions go with their users
	if err := noteRepo.DeleteAll(ctx); err != nil {
		logger.Fatalf("clear notes: %v", err)
	}
	if err := userRepo.DeleteAll(ctx); err != nil {
		logger.Fatalf("clear users: %v", err)
	}

	users := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	notes := service.NewNoteService(noteRepo, false)

	for _, su := range seedUsers {
		user, err := users.Register(ctx, su.username, su.email, su.password)
		if err != nil {
			logger.Fatalf("seed user %s: %v", su.email, err)
		}
		logger.WithFields(logrus.Fields{"id": user.ID, "username": user.Username}).Info("user seeded")

		for _, n := range su.notes {
			note, err := notes.Create(ctx, user.ID, n[0], n[1])
			if err != nil {
				logger.Fatalf("seed note %q: %v", n[0], err)
			}
			logger.WithFields(logrus.Fields{"id": note.ID, "title": note.Title}).Info("note seeded")
		}
	}

	logger.Info("database seeding completed")
}
