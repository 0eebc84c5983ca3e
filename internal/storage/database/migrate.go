package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ApplyMigrationsFromDir 以“按文件名排序”的方式执行 SQL 迁移。
// 说明：AutoMigrate 覆盖日常的表结构同步；这里保留朴素的 SQL 文件执行方式，
// 用于无法用 AutoMigrate 表达的变更（数据回填、索引重建等）。
func ApplyMigrationsFromDir(ctx context.Context, db *sql.DB, dir string) error {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var files []string
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(b)); err != nil {
			return err
		}
	}
	return nil
}
