//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// androidDataRoot 应用私有数据根目录
const androidDataRoot = "/data/data"

// PrepareSaveStorage 在打开 gdata 之前准备存档目录
//
// gdata 在 Android 上写入 /data/data/{package}/saves，但不会创建该目录。
// 得分、累计时间和安全确认都存放在这里，目录不可写时返回错误，
// 调用方随后以仅内存模式运行。
//
// 返回：
//   - string: 存档目录
//   - error: 无法识别包名或目录不可写时返回错误
func PrepareSaveStorage() (string, error) {
	pkg, err := androidPackageName()
	if err != nil {
		return "", fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join(androidDataRoot, pkg, "saves")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create save dir %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return "", fmt.Errorf("save dir %s is not writable: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	return dir, nil
}

// androidPackageName 从 /proc/self/cmdline 读取进程名（即包名）
func androidPackageName() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	// cmdline 以 NUL 分隔参数，第一个参数是进程名
	name, _, _ := strings.Cut(string(data), "\x00")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty process name in /proc/self/cmdline")
	}
	return name, nil
}
