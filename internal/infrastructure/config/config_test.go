package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 120*time.Second, cfg.Cache.BooksTTL)
	assert.Equal(t, 180*time.Second, cfg.Cache.BorrowersTTL)
	assert.Equal(t, 14, cfg.Loan.DefaultDays)
	assert.Equal(t, 3, cfg.Loan.MaxOpen)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("server:\n  port: 9000\ndatabase:\n  driver: sqlite\n  path: test.db\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	t.Setenv("LIBRARY_SERVER_PORT", "9100")
	t.Setenv("LIBRARY_CACHE_BOOKS_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "环境变量优先于配置文件")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.DSN())
	assert.Equal(t, 30*time.Second, cfg.Cache.BooksTTL)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LIBRARY_DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_ReleaseRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LIBRARY_SERVER_MODE", "release")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	mysql := DatabaseConfig{
		Driver: "mysql", User: "root", Password: "pw", Host: "db", Port: 3306,
		DBName: "library", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/library?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", mysql.DSN())

	pg := DatabaseConfig{
		Driver: "postgres", User: "u", Password: "p", Host: "pg", Port: 5432,
		DBName: "library", SSLMode: "disable",
	}
	assert.Equal(t, "host=pg port=5432 user=u password=p dbname=library sslmode=disable TimeZone=UTC", pg.DSN())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LIBRARY_LOAN_MAX_OPEN=5\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LIBRARY_LOAN_MAX_OPEN") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Loan.MaxOpen)
}

// chdir switches the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
