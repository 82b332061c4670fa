// Command seed creates a tenant with one API key and one brand so the admission
// API can be exercised locally.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	config "github.com/maheshrc27/feedrail/configs"
	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/repository"
	"github.com/maheshrc27/feedrail/internal/service"
	"github.com/maheshrc27/feedrail/internal/transfer"
)

func main() {
	email := flag.String("email", "demo@feedrail.dev", "tenant email")
	brandName := flag.String("brand", "Demo Brand", "brand name")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := repository.Migrate(ctx, db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	if err := seed(ctx, db, *email, *brandName); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, db *sql.DB, email, brandName string) error {
	users := repository.NewUserRepository(db)

	user, found, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !found {
		user = &models.User{Email: email}
		if user.ID, err = users.Create(ctx, user); err != nil {
			return err
		}
	}

	key, err := ensureKey(ctx, service.NewApiKeyService(repository.NewApiKeyRepository(db)), user.ID)
	if err != nil {
		return err
	}

	brands := service.NewBrandService(repository.NewBrandRepository(db))
	brand, err := brands.Create(ctx, user.ID, &transfer.BrandCreation{Name: brandName})
	if errors.Is(err, service.ErrDuplicateBrand) {
		brand, err = findBrand(ctx, brands, user.ID, brandName)
	}
	if err != nil {
		return err
	}

	fmt.Printf("user_id=%d\napi_key=%s\nbrand_id=%s\n", user.ID, key.ApiKey, brand.ID)
	return nil
}

// ensureKey returns the tenant's newest key, creating one only if it has none.
func ensureKey(ctx context.Context, keys service.ApiKeyService, userID int64) (*models.ApiKey, error) {
	existing, err := keys.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	return keys.Create(ctx, userID)
}

func findBrand(ctx context.Context, brands service.BrandService, userID int64, name string) (*models.Brand, error) {
	list, err := brands.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, b := range list {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("brand %q not found", name)
}
