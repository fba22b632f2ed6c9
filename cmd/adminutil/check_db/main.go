package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/config"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Connection failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connection successful!")
}

func run() error {
	if p := config.LoadDotenv(); p != "" {
		fmt.Printf("env file: %s\n", p)
	}
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	backend, _ := db.Backend(cfg.DatabaseURL)
	fmt.Printf("backend: %s\n", backend)
	fmt.Printf("url: %s\n", db.MaskDSN(cfg.DatabaseURL))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s, err := db.Open(ctx, cfg.DatabaseURL, cfg.MongoDBName)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Ping(ctx)
}
