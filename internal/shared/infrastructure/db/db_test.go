package db

import (
	"strings"
	"testing"

	"Outbreak/internal/shared/serverconfig"
)

func TestDSN_默认字符集与特殊字符密码(t *testing.T) {
	dsn := DSN(serverconfig.MySQLConfig{
		Host: "127.0.0.1", Port: 3306, User: "root", Password: "p@ss:/w", DBName: "outbreak",
	})
	for _, want := range []string{"root:p@ss:/w@tcp(127.0.0.1:3306)/outbreak?", "charset=utf8mb4", "parseTime=true"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("期望 dsn 包含 %q, got=%s", want, dsn)
		}
	}
}
