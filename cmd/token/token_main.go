package main

import (
	"flag"
	"fmt"
	"os"

	"Outbreak/internal/shared/security"
	"Outbreak/internal/shared/serverconfig"
)

// token 用配置里的 admin.jwt_secret 签发一个管理接口令牌。
func main() {
	cfg := flag.String("config", os.Getenv("OUTBREAK_CONFIG"), "config file, default searches configs/conf.yml upward")
	subject := flag.String("subject", "ops", "token subject")
	flag.Parse()

	conf, err := serverconfig.Load(*cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	token, err := security.Award(conf.Admin.JWTSecret, *subject, conf.Admin.TokenTTL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "award token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
