package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type seedCategory struct {
	id          string
	name        string
	slug        string
	description string
	imageURL    string
}

type seedProduct struct {
	id          string
	categoryID  string
	name        string
	slug        string
	description string
	price       float64
	stock       int
	imageURL    string
	featured    bool
}

type seedUser struct {
	id       string
	email    string
	password string
	fullName string
	role     string
}

var seedCategories = []seedCategory{
	{
		id:          "1",
		name:        "Cars",
		slug:        "cars",
		description: "Individual Hot Wheels die-cast cars",
		imageURL:    "https://images.pexels.com/photos/35967/mini-cooper-auto-model-vehicle.jpg?auto=compress&cs=tinysrgb&w=800",
	},
	{
		id:          "2",
		name:        "Track Sets",
		slug:        "track-sets",
		description: "Complete track sets for racing",
		imageURL:    "https://images.pexels.com/photos/163742/car-race-ferrari-racing-car-163742.jpeg?auto=compress&cs=tinysrgb&w=800",
	},
}

var seedProducts = []seedProduct{
	{
		id:          "1",
		categoryID:  "1",
		name:        "Fast & Furious Nissan Skyline GT-R",
		slug:        "fast-furious-skyline-gtr",
		description: "Iconic blue Nissan Skyline GT-R from Fast & Furious franchise.",
		price:       5.99,
		stock:       50,
		imageURL:    "https://images.pexels.com/photos/3729464/pexels-photo-3729464.jpeg?auto=compress&cs=tinysrgb&w=800",
		featured:    true,
	},
	{
		id:          "2",
		categoryID:  "1",
		name:        "Tesla Cybertruck",
		slug:        "tesla-cybertruck",
		description: "Futuristic Tesla Cybertruck in silver finish.",
		price:       6.99,
		stock:       30,
		imageURL:    "https://images.pexels.com/photos/3802510/pexels-photo-3802510.jpeg?auto=compress&cs=tinysrgb&w=800",
		featured:    true,
	},
	{
		id:          "3",
		categoryID:  "2",
		name:        "Super Speed Blastway Track Set",
		slug:        "super-speed-blastway",
		description: "Epic track set with loops, jumps, and high-speed launcher.",
		price:       49.99,
		stock:       15,
		imageURL:    "https://images.pexels.com/photos/163582/toy-car-motor-vehicle-red-163582.jpeg?auto=compress&cs=tinysrgb&w=800",
		featured:    true,
	},
}

var seedUsers = []seedUser{
	{
		id:       "admin-1",
		email:    "admin@hotwheels.com",
		password: "admin123",
		fullName: "Admin User",
		role:     "admin",
	},
	{
		id:       "customer-1",
		email:    "customer@example.com",
		password: "customer123",
		fullName: "John Customer",
		role:     "customer",
	},
}

// Seed populates demonstration data. Each table is filled only when it is
// empty, so calling it on every startup is safe.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	empty, err := tableIsEmpty(ctx, pool, "categories")
	if err != nil {
		return err
	}
	if empty {
		for _, c := range seedCategories {
			_, err := pool.Exec(ctx,
				`INSERT INTO categories (id, name, slug, description, image_url) VALUES ($1, $2, $3, $4, $5)`,
				c.id, c.name, c.slug, c.description, c.imageURL)
			if err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.id, err)
			}
		}
		log.Info().Int("count", len(seedCategories)).Msg("Seeded categories")
	}

	empty, err = tableIsEmpty(ctx, pool, "products")
	if err != nil {
		return err
	}
	if empty {
		for _, p := range seedProducts {
			_, err := pool.Exec(ctx,
				`INSERT INTO products (id, category_id, name, slug, description, price, stock, image_url, featured)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				p.id, p.categoryID, p.name, p.slug, p.description, p.price, p.stock, p.imageURL, p.featured)
			if err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.id, err)
			}
		}
		log.Info().Int("count", len(seedProducts)).Msg("Seeded products")
	}

	empty, err = tableIsEmpty(ctx, pool, "users")
	if err != nil {
		return err
	}
	if empty {
		for _, u := range seedUsers {
			_, err := pool.Exec(ctx,
				`INSERT INTO users (id, email, password, full_name, role) VALUES ($1, $2, $3, $4, $5)`,
				u.id, u.email, u.password, u.fullName, u.role)
			if err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.id, err)
			}
		}
		log.Info().Int("count", len(seedUsers)).Msg("Seeded users")
	}

	return nil
}

func tableIsEmpty(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s)", table)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check whether %s is empty: %w", table, err)
	}
	return !exists, nil
}
