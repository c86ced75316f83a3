//go:build !android

package utils

// PrepareSaveStorage 在打开 gdata 之前准备存档目录
//
// 桌面平台由 gdata 自己创建应用目录，这里不做任何事。
//
// 返回：
//   - string: 存档目录，由 gdata 决定时为空
//   - error: 始终为 nil
func PrepareSaveStorage() (string, error) {
	return "", nil
}
