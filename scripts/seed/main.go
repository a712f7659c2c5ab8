package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/geotrace/geotrace/internal/auth"
	"github.com/geotrace/geotrace/internal/platform/db"
)

func main() {
	uri := getenv("MONGO_URI", "mongodb://localhost:27017")
	dbName := getenv("MONGO_DATABASE", "geotrace")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, uri)
	if err != nil {
		log.Fatalf("connect mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	fmt.Println("→ Seeding users...")
	if err := seedUsers(ctx, client.Database(dbName)); err != nil {
		log.Fatalf("seed users: %v", err)
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func seedUsers(ctx context.Context, database *mongo.Database) error {
	users := []struct {
		email    string
		password string
	}{
		{"sample@gmail.com", "sample123"},
	}

	col := database.Collection("users")
	for _, u := range users {
		err := col.FindOne(ctx, bson.M{"email": u.email}).Err()
		if err == nil {
			fmt.Printf("  user %s already exists, skipping\n", u.email)
			continue
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		_, err = col.InsertOne(ctx, bson.M{
			"email":      u.email,
			"password":   hash,
			"created_at": now,
			"updated_at": now,
		})
		if err != nil {
			return err
		}
		fmt.Printf("  created user %s\n", u.email)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
