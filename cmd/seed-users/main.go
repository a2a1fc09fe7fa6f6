// Command seed-users populates the durable user registry in the local store
// with demo accounts, so a fresh storefront has someone to log in as.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dishly/storefront/internal/domain/auth"
	"github.com/dishly/storefront/internal/storage/local"
	"github.com/dishly/storefront/internal/store"
)

type seedUser struct {
	name     string
	email    string
	password string
}

var seedUsers = []seedUser{
	{name: "Demo User", email: "demo@example.com", password: "demo1234"},
	{name: "Ada Lovelace", email: "ada@example.com", password: "analytical"},
}

func main() {
	var dataDir string
	flag.StringVar(&dataDir, "data-dir", "data", "directory of the local persistent store")
	flag.Parse()

	if err := run(dataDir); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("seed completed", slog.Int("users", len(seedUsers)))
}

func run(dataDir string) error {
	fileStore, err := store.NewFileStore(dataDir)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	users := local.NewUserRepository(fileStore)

	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hash password")
		}

		err = users.Create(auth.StoredUser{
			User: auth.User{
				ID:    uuid.New().String(),
				Name:  su.name,
				Email: su.email,
			},
			PasswordHash: string(hash),
		})
		if err != nil {
			if errors.Is(err, auth.ErrEmailExists) {
				slog.Info("user already present", slog.String("email", su.email))
				continue
			}
			return errors.Wrapf(err, "create user %s", su.email)
		}
	}
	return nil
}
