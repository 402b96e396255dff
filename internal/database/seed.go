package database

import (
	"context"
	"fmt"
	"time"
)

// SeedUser is a development account inserted by Seed. The password hash is
// computed by the caller so this package stays free of auth concerns.
type SeedUser struct {
	Email           string
	Username        string
	PasswordHash    string
	Role            string
	ProfileImageURL string
}

// Seed fills an empty database with sample accounts and the starter
// catalog. Tables that already hold rows are left alone.
func Seed(ctx context.Context, db *DB, users []SeedUser) error {
	return db.WithTx(ctx, func(q Querier) error {
		now := time.Now().UTC()

		var n int
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if n == 0 {
			for _, u := range users {
				if _, err := q.ExecContext(ctx,
					`INSERT INTO users (email, username, password, role, profile_image_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
					u.Email, u.Username, u.PasswordHash, u.Role, u.ProfileImageURL, now); err != nil {
					return fmt.Errorf("seed user %s: %w", u.Email, err)
				}
			}
		}

		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if n > 0 {
			return nil
		}
		for _, p := range starterCatalog {
			if _, err := q.ExecContext(ctx,
				`INSERT INTO products (title, description, price, image_url, created_at) VALUES (?, ?, ?, ?, ?)`,
				p.title, p.description, p.price, p.imageURL, now); err != nil {
				return fmt.Errorf("seed product %q: %w", p.title, err)
			}
		}
		return nil
	})
}

var starterCatalog = []struct {
	title, description, price, imageURL string
}{
	{
		title:       "Premium Adult Dog Food",
		description: "Super premium chicken flavoured dry food for medium and large adult dogs. 15kg.",
		price:       "149.90",
		imageURL:    "https://images.dog.ceo/breeds/affenpinscher/n02110627_13553.jpg",
	},
	{
		title:       "Tennis Balls (Pack of 3)",
		description: "Pack of 3 tough tennis balls for dogs, great for fetch.",
		price:       "29.90",
		imageURL:    "https://images.dog.ceo/breeds/beagle/n02088364_10206.jpg",
	},
}
