package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	databasepb "cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/pkg/config"
	"github.com/murkotick/catalog-service/internal/pkg/logger"
)

// Applies a DDL file to the configured Spanner database (typically the
// emulator for local dev).
//
// Usage (emulator):
//
//	SPANNER_EMULATOR_HOST=localhost:9010 \
//	SPANNER_DATABASE=projects/test-project/instances/emulator-instance/databases/catalog \
//	go run ./cmd/migrate -file migrations/001_initial_schema.sql
func main() {
	path := flag.String("file", "migrations/001_initial_schema.sql", "DDL file to apply")
	flag.Parse()

	log, err := logger.New(config.LogConfig{Mode: "development", Level: "info"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db := os.Getenv("SPANNER_DATABASE")
	if db == "" {
		log.Fatal("SPANNER_DATABASE is required (e.g. projects/test-project/instances/emulator-instance/databases/catalog)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stmts, err := readDDLStatements(*path)
	if err != nil {
		log.Fatal("read DDL", zap.String("file", *path), zap.Error(err))
	}
	if len(stmts) == 0 {
		log.Fatal("no DDL statements found", zap.String("file", *path))
	}

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		log.Fatal("database admin client", zap.Error(err))
	}
	defer admin.Close()

	op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   db,
		Statements: stmts,
	})
	if err != nil {
		log.Fatal("UpdateDatabaseDdl", zap.Error(err))
	}
	if err := op.Wait(ctx); err != nil {
		log.Fatal("UpdateDatabaseDdl wait", zap.Error(err))
	}

	log.Info("applied DDL", zap.Int("statements", len(stmts)), zap.String("database", db))
}

func readDDLStatements(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sql := strings.ReplaceAll(string(b), "\r\n", "\n")

	var out []string
	for _, p := range strings.Split(sql, ";") {
		if stmt := strings.TrimSpace(p); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out, nil
}
