package writer

import (
	"os"
	"path/filepath"
)

// Writer 把还原出的文件落到输出目录
// 相对路径原样使用，父目录按需创建，同路径文件直接覆盖
type Writer struct {
	root string
}

// New 创建 Writer 并确保输出目录存在
func New(root string) (*Writer, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &Writer{root: root}, nil
}

// Root 输出目录
func (w *Writer) Root() string {
	return w.root
}

// WriteFile 在输出目录下按相对路径写入内容，返回落盘的完整路径
func (w *Writer) WriteFile(relPath string, content []byte) (string, error) {
	full := filepath.Join(w.root, filepath.FromSlash(relPath))

	if dir := filepath.Dir(full); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	if err := os.WriteFile(full, content, 0644); err != nil {
		return "", err
	}
	return full, nil
}
