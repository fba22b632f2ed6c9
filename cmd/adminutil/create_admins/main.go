package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/auth"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/config"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/db"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

// userFlags collects repeated -user name:password values.
type userFlags []string

func (f *userFlags) String() string { return strings.Join(*f, ",") }

func (f *userFlags) Set(v string) error {
	if name, pw, ok := strings.Cut(v, ":"); !ok || strings.TrimSpace(name) == "" || pw == "" {
		return fmt.Errorf("expected name:password, got %q", v)
	}
	*f = append(*f, v)
	return nil
}

func main() {
	var users userFlags
	flag.Var(&users, "user", "admin to create as name:password (repeatable)")
	flag.Parse()

	if len(users) == 0 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/adminutil/create_admins -user ashan:secret [-user other:secret]")
		os.Exit(2)
	}

	config.LoadDotenv()
	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := db.Open(ctx, cfg.DatabaseURL, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("unable to open store: %v", err)
	}
	defer s.Close()

	hasher := auth.NewHasher(cfg.BcryptRounds)
	for _, entry := range users {
		name, pw, _ := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)

		hashed, err := hasher.Hash(pw)
		if err != nil {
			log.Fatalf("hash password for %s: %v", name, err)
		}
		err = s.InsertUser(ctx, &user.User{Username: name, Password: hashed, Role: user.RoleAdmin})
		switch {
		case errors.Is(err, store.ErrDuplicate):
			fmt.Printf("user %s already exists\n", name)
		case err != nil:
			log.Fatalf("create %s: %v", name, err)
		default:
			fmt.Printf("created %s\n", name)
		}
	}
}
