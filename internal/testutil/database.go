package testutil

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ory/dockertest"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/peregrinehq/inlet/core"
)

var (
	user        = "postgres"
	password    = "secret"
	dbName      = "unittest"
	dsnTemplate = "postgres://%s:%s@localhost:%s/%s?sslmode=disable"
)

// CreateDB hands back a migrated database and its cleanup. The default is an
// in-memory sqlite database; set INTEGRATION_DB=1 to run against a
// dockertest-managed postgres instead.
func CreateDB() (*gorm.DB, func()) {
	if os.Getenv("INTEGRATION_DB") == "1" {
		return createPostgresDB()
	}
	return createSqliteDB()
}

func createSqliteDB() (*gorm.DB, func()) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	// a second pooled connection would see its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&core.Message{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db, func() { sqlDB.Close() }
}

func createPostgresDB() (*gorm.DB, func()) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not connect to docker: %s", err)
	}

	runOptions := &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "latest",
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + dbName,
		},
		ExposedPorts: []string{"5432/tcp"},
	}

	resource, err := pool.RunWithOptions(runOptions)
	if err != nil {
		log.Fatalf("could not start resource: %s", err)
	}

	port := resource.GetPort("5432/tcp")
	dsn := fmt.Sprintf(dsnTemplate, user, password, port, dbName)

	var db *gorm.DB
	if err := pool.Retry(func() error {
		time.Sleep(time.Second * 2)

		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		return err
	}); err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}

	if err := db.AutoMigrate(&core.Message{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	cleanup := func() {
		if err := pool.Purge(resource); err != nil {
			log.Printf("could not purge resource: %s", err)
		}
	}

	return db, cleanup
}
