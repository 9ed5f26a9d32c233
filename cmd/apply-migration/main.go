package main

import (
	"os"
	"strings"

	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/namenice/kamui/internal/config"
	"github.com/namenice/kamui/pkg/database"
	"github.com/namenice/kamui/pkg/logger"
)

func main() {
	log, err := logger.NewLoggerWithDefaults()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		log.Fatal("usage: apply-migration <migration_file.sql>")
	}

	sqlContent, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal("failed to read migration file", zap.Error(err))
	}

	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("cannot connect to database", zap.Error(err))
	}
	defer database.Close(db)

	log.Info("connected to database", zap.String("database", cfg.Database.Database))

	applied := 0
	for i, stmt := range splitStatements(string(sqlContent)) {
		if _, err := db.Exec(stmt); err != nil {
			preview := stmt
			if len(preview) > 100 {
				preview = preview[:100]
			}
			log.Fatal("failed to execute statement",
				zap.Int("statement", i+1),
				zap.String("sql", preview),
				zap.Error(err))
		}
		applied++
	}

	log.Info("migration completed", zap.Int("statements", applied))
}

// splitStatements breaks a migration file into executable statements.
// Comment lines are dropped from each chunk before the emptiness check,
// so a section banner never swallows the statement that follows it.
func splitStatements(sqlContent string) []string {
	var stmts []string
	for _, chunk := range strings.Split(sqlContent, ";") {
		var kept []string
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			kept = append(kept, line)
		}
		stmt := strings.TrimSpace(strings.Join(kept, "\n"))
		if stmt == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
