// Package main implements a standalone seed script that populates the
// shop with demo data through the running backend services: customers
// with funded wallets, catalog items, a handful of purchases and a few
// reviews.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func httpPost(url, token string, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}

func dataField(result map[string]any, key string) string {
	data, ok := result["data"].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := data[key].(string)
	return v
}

type seedCustomer struct {
	fullName string
	username string
	balance  float64
}

type seedItem struct {
	name     string
	category string
	price    float64
	stock    int
}

func main() {
	customerURL := getEnv("CUSTOMER_SERVICE_URL", "http://localhost:8001")
	inventoryURL := getEnv("INVENTORY_SERVICE_URL", "http://localhost:8002")
	salesURL := getEnv("SALES_SERVICE_URL", "http://localhost:8003")
	reviewURL := getEnv("REVIEW_SERVICE_URL", "http://localhost:8004")
	password := getEnv("SEED_PASSWORD", "SeedPass123!")

	customers := []seedCustomer{
		{"Lina Haddad", "lina", 500},
		{"Omar Khalil", "omar", 250},
		{"Rana Saab", "rana", 120},
	}

	items := []seedItem{
		{"mechanical keyboard", "electronics", 50, 40},
		{"desk lamp", "home", 15, 60},
		{"usb microphone", "electronics", 80, 25},
		{"notebook set", "stationery", 8, 150},
		{"wireless mouse", "electronics", 22, 70},
	}

	tokens := make(map[string]string)
	customerIDs := make(map[string]string)

	for _, c := range customers {
		if _, err := httpPost(customerURL+"/api/v1/auth/register", "", map[string]any{
			"full_name": c.fullName,
			"username":  c.username,
			"password":  password,
			"age":       25 + rand.Intn(30),
		}); err != nil {
			log.Printf("register %s: %v (may already exist)", c.username, err)
		}

		loginResp, err := httpPost(customerURL+"/api/v1/auth/login", "", map[string]any{
			"username": c.username,
			"password": password,
		})
		if err != nil {
			log.Fatalf("login %s: %v", c.username, err)
		}
		token := dataField(loginResp, "access_token")
		tokens[c.username] = token

		if _, err := httpPost(
			fmt.Sprintf("%s/api/v1/customers/%s/charge", customerURL, c.username),
			token, map[string]any{"amount": c.balance},
		); err != nil {
			log.Printf("charge %s: %v", c.username, err)
		}

		resp, err := http.NewRequest(http.MethodGet,
			fmt.Sprintf("%s/api/v1/customers/%s", customerURL, c.username), nil)
		if err == nil {
			resp.Header.Set("Authorization", "Bearer "+token)
			if r, err := http.DefaultClient.Do(resp); err == nil {
				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				r.Body.Close()
				customerIDs[c.username] = dataField(body, "id")
			}
		}
		log.Printf("seeded customer %s (wallet %.0f)", c.username, c.balance)
	}

	adminToken := tokens["lina"]

	var itemIDs []string
	for _, it := range items {
		resp, err := httpPost(inventoryURL+"/api/v1/items", adminToken, map[string]any{
			"name":        it.name,
			"category":    it.category,
			"price":       it.price,
			"stock_count": it.stock,
		})
		if err != nil {
			log.Printf("create item %q: %v", it.name, err)
			continue
		}
		id := dataField(resp, "id")
		itemIDs = append(itemIDs, id)
		log.Printf("seeded item %q (price %.2f, stock %d)", it.name, it.price, it.stock)
	}

	if len(itemIDs) == 0 {
		log.Fatal("no items seeded, aborting")
	}

	for _, c := range customers {
		for i := 0; i < 2+rand.Intn(3); i++ {
			itemID := itemIDs[rand.Intn(len(itemIDs))]
			if _, err := httpPost(
				fmt.Sprintf("%s/api/v1/sales/%s?item_id=%s", salesURL, c.username, itemID),
				tokens[c.username], nil,
			); err != nil {
				log.Printf("purchase by %s: %v", c.username, err)
			}
		}
	}
	log.Print("seeded purchases")

	comments := []string{
		"exactly as described, fast delivery",
		"solid build quality for the price",
		"works fine but the packaging was damaged",
		"would buy again",
	}
	for _, c := range customers {
		itemID := itemIDs[rand.Intn(len(itemIDs))]
		if _, err := httpPost(reviewURL+"/api/v1/reviews", tokens[c.username], map[string]any{
			"product_id":  itemID,
			"customer_id": customerIDs[c.username],
			"rating":      3 + rand.Intn(3),
			"comment":     comments[rand.Intn(len(comments))],
		}); err != nil {
			log.Printf("review by %s: %v", c.username, err)
		}
	}
	log.Print("seeded reviews")
	log.Print("seed complete")
}
