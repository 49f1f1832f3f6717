package main

// Create an account through the account service, against whichever store the
// environment configures:
//   go run ./cmd/create-account -role company -email hr@acme.io -password secret -company "Acme Inc"

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"jobboard-backend/internal/accounts"
	"jobboard-backend/internal/bootstrap"
	"jobboard-backend/internal/shared/config"
)

func main() {
	var in accounts.RegisterInput
	flag.StringVar(&in.Role, "role", accounts.RoleUser, "account kind: user or company")
	flag.StringVar(&in.Email, "email", "", "login email")
	flag.StringVar(&in.Password, "password", "", "login password")
	flag.StringVar(&in.Name, "name", "", "display name")
	flag.StringVar(&in.CompanyName, "company", "", "company name (company accounts)")
	flag.StringVar(&in.Industry, "industry", "", "industry (company accounts)")
	flag.StringVar(&in.Location, "location", "", "location")
	flag.Parse()

	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StorageConnectTimeout+30*time.Second)
	defer cancel()
	app.Start(ctx)
	defer app.Close(context.Background())

	if !app.Monitor.IsPrimaryAvailable() {
		log.Printf("no primary store available; refusing to create an in-memory account")
		os.Exit(1)
	}

	ident, err := app.Accounts.Register(ctx, in)
	if err != nil {
		log.Printf("create account: %v", err)
		os.Exit(1)
	}
	log.Printf("created %s account %s (%s)", ident.Role, ident.ID, ident.Email)
}
