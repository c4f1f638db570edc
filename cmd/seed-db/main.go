package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/storage/postgres"
)

type productJSON struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Rating             decimal.Decimal `json:"rating"`
	Stock              int             `json:"stock"`
	Brand              string          `json:"brand"`
	SKU                string          `json:"sku"`
	Thumbnail          string          `json:"thumbnail"`
	TopSelling         bool            `json:"top_selling"`
}

type categoryJSON struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Featured bool   `json:"featured"`
}

type seedJSON struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
	Districts  []string       `json:"districts"`
}

func main() {
	var (
		databaseURL  string
		seedFile     string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedFile, "seed-file", "db/seed/catalog.json", "path to catalog seed JSON file")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or SHOP_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or SHOP_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("SHOP_SEED_API_KEY")
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("SHOP_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("reading seed file", slog.String("path", seedFile))

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}
	var seed seedJSON
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	if err := seedCatalog(ctx, pool, seed); err != nil {
		return err
	}
	if apiKey != "" {
		if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
			return errors.Wrap(err, "seed api key")
		}
	}
	return nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, seed seedJSON) error {
	slog.Info("upserting categories", slog.Int("count", len(seed.Categories)))

	for _, c := range seed.Categories {
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (name, slug, featured)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, featured = EXCLUDED.featured`,
			c.Name, c.Slug, c.Featured,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert category %s", c.Slug)
		}
	}

	slog.Info("upserting products", slog.Int("count", len(seed.Products)))

	for _, p := range seed.Products {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO products (title, description, category, price, discount_percentage,
			                      rating, stock, brand, sku, thumbnail)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (sku) DO UPDATE
			SET title = EXCLUDED.title, description = EXCLUDED.description,
			    category = EXCLUDED.category, price = EXCLUDED.price,
			    discount_percentage = EXCLUDED.discount_percentage,
			    rating = EXCLUDED.rating, stock = EXCLUDED.stock,
			    brand = EXCLUDED.brand, thumbnail = EXCLUDED.thumbnail,
			    updated_at = now()
			RETURNING id`,
			p.Title, p.Description, p.Category, p.Price, p.DiscountPercentage,
			p.Rating, p.Stock, p.Brand, p.SKU, p.Thumbnail,
		).Scan(&id)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.SKU)
		}

		if p.TopSelling {
			if _, err := pool.Exec(ctx, `
				INSERT INTO top_selling_products (product_id)
				VALUES ($1)
				ON CONFLICT (product_id) DO NOTHING`, id,
			); err != nil {
				return errors.Wrapf(err, "mark product %s top selling", p.SKU)
			}
		}

		slog.Info("upserted product", slog.Int64("id", id), slog.String("title", p.Title))
	}

	slog.Info("upserting districts", slog.Int("count", len(seed.Districts)))

	for _, title := range seed.Districts {
		if _, err := pool.Exec(ctx, `
			INSERT INTO districts (title)
			VALUES ($1)
			ON CONFLICT (title) DO NOTHING`, title,
		); err != nil {
			return errors.Wrapf(err, "upsert district %s", title)
		}
	}
	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding admin API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if _, err := pool.Exec(ctx, `
		INSERT INTO api_keys (id, key_hash, name, scopes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key_hash) DO NOTHING`,
		uuid.New(), keyHash, "Seeded admin key", []string{"admin"},
	); err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}

	slog.Info("upserted API key", slog.String("name", "Seeded admin key"))
	return nil
}
