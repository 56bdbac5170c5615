package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	_ "github.com/go-sql-driver/mysql"
)

// Seeds a local database with a shop, agents and sellable devices so
// the loan and sale flows can be exercised end to end.
func main() {
	mysqlUser := getEnv("MYSQL_USER", "gigmile")
	mysqlPassword := getEnv("MYSQL_PASSWORD", "gigmile123")
	mysqlHost := getEnv("MYSQL_HOST", "localhost:3306")
	mysqlDatabase := getEnv("MYSQL_DB", "financing")

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		mysqlUser, mysqlPassword, mysqlHost, mysqlDatabase)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping MySQL: %v", err)
	}

	fmt.Println("Connected to MySQL successfully")

	shopID := uuid.New().String()
	_, err = db.Exec(`
		INSERT INTO shops (id, name, location, created_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE name = VALUES(name)
	`, shopID, "Ikeja Flagship", "Lagos")
	if err != nil {
		log.Fatalf("Failed to seed shop: %v", err)
	}
	fmt.Printf("Seeded shop: %s (Ikeja Flagship)\n", shopID)

	agents := []struct {
		name string
		rate string
	}{
		{"Ada Obi", "0.05"},
		{"Tunde Bakare", "0.04"},
	}

	for _, a := range agents {
		agentID := uuid.New().String()
		_, err := db.Exec(`
			INSERT INTO agents (id, name, phone, commission_rate, commission_earned, created_at, updated_at)
			VALUES (?, ?, '', ?, 0, NOW(), NOW())
		`, agentID, a.name, a.rate)
		if err != nil {
			log.Fatalf("Failed to seed agent %s: %v", a.name, err)
		}
		fmt.Printf("Seeded agent: %s (%s, rate %s)\n", agentID, a.name, a.rate)
	}

	devices := []struct {
		imei  string
		model string
	}{
		{"356938035643801", "Samsung Galaxy A15"},
		{"356938035643802", "Samsung Galaxy A15"},
		{"356938035643803", "Tecno Spark 20"},
		{"356938035643804", "Tecno Spark 20"},
		{"356938035643805", "Infinix Hot 40"},
	}

	// Sales require AVAILABLE stock; devices assigned to a shop are
	// RESERVED and leave the sellable pool.
	query := `
		INSERT INTO devices (id, imei, model, shop_id, status, lock_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'UNLOCKED', NOW(), NOW())
		ON DUPLICATE KEY UPDATE model = VALUES(model)
	`

	for i, d := range devices {
		status, deviceShopID := "AVAILABLE", ""
		if i >= 3 {
			status, deviceShopID = "RESERVED", shopID
		}
		_, err := db.Exec(query, uuid.New().String(), d.imei, d.model, deviceShopID, status)
		if err != nil {
			log.Fatalf("Failed to seed device %s: %v", d.imei, err)
		}
		fmt.Printf("Seeded device: %s (%s, %s)\n", d.imei, d.model, status)
	}

	fmt.Println("\nSeed completed successfully!")
	fmt.Println("Register loans against the seeded device IMEIs to test the sale flow")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
