package db

import (
	"context"
	"net"
	"strconv"
	"time"

	"Outbreak/internal/shared/logs"
	"Outbreak/internal/shared/serverconfig"
	"Outbreak/modules/kit/logx"

	gomysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	slowQuery       = 200 * time.Millisecond
	connMaxLifetime = time.Hour
	pingTimeout     = 3 * time.Second
)

// DSN 由结构化配置拼出 go-sql-driver 连接串，避免手拼时密码里的特殊字符出错。
func DSN(cfg serverconfig.MySQLConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	c := gomysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.DBName
	c.ParseTime = true
	c.Loc = time.Local
	c.Params = map[string]string{"charset": charset}
	return c.FormatDSN()
}

// Open 打开连接池并 ping 一次。返回的 close 关闭底层 *sql.DB。
func Open(ctx context.Context, cfg serverconfig.MySQLConfig, l logx.Logger) (*gorm.DB, func(context.Context) error, error) {
	if l == nil {
		l = logx.Nop()
	}
	gdb, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: logs.NewGormLogger(l, logger.Warn, slowQuery),
	})
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, err
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	l.Info("mysql 已连接", zap.String("addr", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))), zap.String("db", cfg.DBName))
	closeFn := func(context.Context) error { return sqlDB.Close() }
	return gdb, closeFn, nil
}
