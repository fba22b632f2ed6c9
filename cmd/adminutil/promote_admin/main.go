package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/config"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/db"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

func main() {
	username := flag.String("username", "", "Username of the user to promote to admin")
	flag.Parse()

	if *username == "" {
		log.Fatalf("usage: go run ./cmd/adminutil/promote_admin -username ashan")
	}

	config.LoadDotenv()
	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := db.Open(ctx, cfg.DatabaseURL, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("unable to open store: %v", err)
	}
	defer s.Close()

	err = s.SetRole(ctx, *username, user.RoleAdmin)
	if errors.Is(err, store.ErrNotFound) {
		log.Fatalf("no user found with username: %s", *username)
	}
	if err != nil {
		log.Fatalf("failed to promote user to admin: %v", err)
	}

	fmt.Printf("User %s promoted to admin.\n", *username)
}
