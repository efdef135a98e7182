// Command provision creates the blog's admin account, or resets the
// existing admin's profile and password.
//
//	provision -email admin@example.com -username admin -password s3cret
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iliyamo/blog-system/internal/config"
	"github.com/iliyamo/blog-system/internal/database"
	"github.com/iliyamo/blog-system/internal/logging"
	"github.com/iliyamo/blog-system/internal/repository"
	"github.com/iliyamo/blog-system/internal/service"
	"github.com/iliyamo/blog-system/internal/utils"
)

func main() {
	var in service.ProfileInput
	flag.StringVar(&in.Email, "email", "", "admin email (required)")
	flag.StringVar(&in.Username, "username", "admin", "admin username")
	flag.StringVar(&in.Firstname, "firstname", "", "first name")
	flag.StringVar(&in.Lastname, "lastname", "", "last name")
	flag.StringVar(&in.NewPassword, "password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	flag.Parse()

	if in.Email == "" || in.NewPassword == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.DatabaseFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Env)

	db, err := database.Open(cfg.DSN())
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Error("database migrate failed", "err", err)
		os.Exit(1)
	}

	profiles := service.NewProfileService(repository.NewUserRepo(db), utils.NewPasswordHasher(cfg.BcryptCost))
	u, created, err := profiles.Provision(ctx, in)
	if err != nil {
		log.Error("provision failed", "err", err)
		os.Exit(1)
	}
	log.Info("admin provisioned", "user_id", u.ID, "email", u.Email, "created", created)
}
