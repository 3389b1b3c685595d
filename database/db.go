package database

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the MySQL connection with pooling and retry. Env-driven;
// DB_DSN overrides the assembled DSN.
func Connect() (*gorm.DB, error) {
	if DB != nil {
		return DB, nil
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		host := getenv("DB_HOST", "127.0.0.1")
		port := getenv("DB_PORT", "3306")
		user := getenv("DB_USER", "root")
		pass := getenv("DB_PASS", "")
		name := getenv("DB_NAME", "workup")
		params := getenv("DB_PARAMS", "charset=utf8mb4&parseTime=True&loc=Local")
		if !strings.Contains(params, "timeout=") {
			params = params + "&timeout=10s&readTimeout=10s&writeTimeout=10s"
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, name, params)
	}

	var gormLogger logger.Interface
	if strings.ToLower(getenv("ENV", "development")) == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	maxRetries := atoi(getenv("DB_CONNECT_RETRIES", "5"))
	var db *gorm.DB
	var err error
	backoff := time.Second
	for attempt := 0; attempt < maxRetries; attempt++ {
		db, err = gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		log.Printf("[database] connect attempt %d failed: %v", attempt+1, err)
		time.Sleep(backoff)
		backoff *= 2
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(atoi(getenv("DB_MAX_OPEN_CONNS", "25")))
	sqlDB.SetMaxIdleConns(atoi(getenv("DB_MAX_IDLE_CONNS", "25")))
	sqlDB.SetConnMaxLifetime(time.Duration(atoi(getenv("DB_CONN_MAX_LIFETIME", "3600"))) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	DB = db
	return DB, nil
}

// SetDB replaces the shared handle. Tests use this to point the package at an
// in-memory database.
func SetDB(db *gorm.DB) {
	DB = db
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	if v <= 0 {
		return 0
	}
	return v
}
