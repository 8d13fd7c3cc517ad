package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/qrmenu/internal/config"
	"github.com/example/qrmenu/internal/models"
	"github.com/example/qrmenu/internal/routes"
	"github.com/example/qrmenu/internal/store"
	"github.com/example/qrmenu/internal/theme"
	"github.com/example/qrmenu/internal/utils"
)

var (
	testDB  *gorm.DB
	testCfg = &config.Config{
		JWTSecret:    "test-secret-key-for-unit-tests",
		TokenExpires: time.Hour,
	}
)

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// One open connection keeps all goroutines, including background
	// remote forwards, on the same in-memory database.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Raw SQLite DDL instead of AutoMigrate: the model tags carry
	// postgres-only column types (jsonb, text[]).
	if err := createSQLiteTables(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

func createSQLiteTables(db *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS businesses (
			id TEXT PRIMARY KEY,
			created_at DATETIME, updated_at DATETIME,
			slug TEXT UNIQUE, name TEXT, description TEXT,
			phone TEXT, email TEXT, address TEXT, website TEXT,
			logo TEXT, cover_image TEXT,
			social_media TEXT, working_hours TEXT, gallery TEXT,
			welcome_settings TEXT, theme_settings TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			created_at DATETIME, updated_at DATETIME,
			business_id TEXT, name TEXT, icon TEXT,
			is_featured BOOLEAN DEFAULT FALSE, product_count INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			created_at DATETIME, updated_at DATETIME,
			business_id TEXT, category_id TEXT, name TEXT, description TEXT,
			price REAL DEFAULT 0, original_price REAL,
			image TEXT, gallery TEXT,
			is_featured BOOLEAN DEFAULT FALSE, is_new BOOLEAN DEFAULT FALSE,
			tags TEXT, variations TEXT, extras TEXT, allergens TEXT,
			preparation_time INTEGER DEFAULT 0, calories INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			created_at DATETIME, updated_at DATETIME,
			business_id TEXT, name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS admin_users (
			id TEXT PRIMARY KEY,
			created_at DATETIME, updated_at DATETIME,
			email TEXT UNIQUE, name TEXT, password_hash TEXT, business_id TEXT
		)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// freshDB wipes all rows so each test starts clean.
func freshDB() *gorm.DB {
	testDB.Exec("DELETE FROM products")
	testDB.Exec("DELETE FROM tags")
	testDB.Exec("DELETE FROM categories")
	testDB.Exec("DELETE FROM admin_users")
	testDB.Exec("DELETE FROM businesses")
	return testDB
}

// setupApp builds the full route tree over the test database with an
// in-memory local cache. The returned manager lets tests drain background
// remote forwards.
func setupApp() (*fiber.App, *store.Manager) {
	remote := store.NewRemoteStore(testDB)
	stores := store.NewManager(remote, store.NewMemoryCache(), nil)
	themes := theme.NewRegistry(nil)
	stores.OnStoreCreated(func(ds *store.DataStore) {
		slug := ds.Slug()
		ds.OnChange(func(snap store.Snapshot) {
			if snap.Business != nil {
				themes.Apply(slug, snap.Business.ThemeSettings)
			}
		})
	})

	app := fiber.New()
	routes.Register(app, testDB, stores, themes, remote, testCfg)
	return app, stores
}

func seedBusiness(db *gorm.DB, name, slug string) models.Business {
	business := models.Business{
		Slug:         slug,
		Name:         name,
		WorkingHours: models.DefaultWorkingHours(),
	}
	if err := db.Create(&business).Error; err != nil {
		panic(err)
	}
	return business
}

func seedCategory(db *gorm.DB, businessID uuid.UUID, name string) models.Category {
	category := models.Category{BusinessID: businessID, Name: name, Icon: "Utensils"}
	if err := db.Create(&category).Error; err != nil {
		panic(err)
	}
	return category
}

func seedProduct(db *gorm.DB, businessID, categoryID uuid.UUID, name string, price float64) models.Product {
	product := models.Product{
		BusinessID: businessID,
		CategoryID: categoryID,
		Name:       name,
		Price:      price,
	}
	if err := db.Create(&product).Error; err != nil {
		panic(err)
	}
	return product
}

// seedAdmin creates an admin for the business and returns a valid token.
func seedAdmin(db *gorm.DB, email string, businessID uuid.UUID) (models.AdminUser, string) {
	hash, err := utils.HashPassword("password123")
	if err != nil {
		panic(err)
	}
	admin := models.AdminUser{Email: email, PasswordHash: hash, BusinessID: businessID}
	if err := db.Create(&admin).Error; err != nil {
		panic(err)
	}

	token, err := utils.GenerateToken(testCfg.JWTSecret, admin.ID, businessID, testCfg.TokenExpires)
	if err != nil {
		panic(err)
	}
	return admin, token
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func parseResponse(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func dataObject(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	out := parseResponse(t, resp)
	data, ok := out["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object in response, got %v", out)
	}
	return data
}

func dataArray(t *testing.T, resp *http.Response) []interface{} {
	t.Helper()
	out := parseResponse(t, resp)
	data, ok := out["data"].([]interface{})
	if !ok {
		t.Fatalf("expected data array in response, got %v", out)
	}
	return data
}
