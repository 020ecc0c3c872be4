package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// Resolve 定位配置文件：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		path := cfgName
		if !filepath.IsAbs(path) {
			path = filepath.Join(curDir, cfgName)
		}
		if !fileExist(path) {
			return "", fmt.Errorf("config file not exist, configPath=%v", path)
		}
		return path, nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("config file not exist, searched configs/conf.yml from: " + startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
