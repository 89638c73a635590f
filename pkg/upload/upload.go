package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge     = errors.New("文件超出大小限制")
	ErrExtNotAllowed    = errors.New("文件类型不在允许列表中")
	ErrExtDenied        = errors.New("禁止上传可执行文件")
	ErrMimeMismatch     = errors.New("文件内容与类型不匹配")
	ErrTooManyFiles     = errors.New("附件数量超出限制")
	errDetectReadFailed = errors.New("读取文件内容失败")
)

// 扩展名允许列表
var allowedExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".txt": true, ".csv": true, ".zip": true,
}

// 可执行扩展名拒绝列表，优先于允许列表
var deniedExts = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".sh": true, ".ps1": true,
	".msi": true, ".com": true, ".scr": true, ".dll": true, ".jar": true,
}

// MaxFiles 单个请求最多附件数
const MaxFiles = 2

// Store 本地磁盘文件存储
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore 创建文件存储，确保目录存在
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Validate 校验单个上传文件：大小、扩展名拒绝/允许列表、MIME 嗅探
func (s *Store) Validate(fh *multipart.FileHeader) error {
	if fh.Size > s.maxBytes {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if deniedExts[ext] {
		return ErrExtDenied
	}
	if !allowedExts[ext] {
		return ErrExtNotAllowed
	}

	f, err := fh.Open()
	if err != nil {
		return errDetectReadFailed
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	contentType := http.DetectContentType(head[:n])
	// 可执行内容伪装成文档类扩展名时拒绝
	if strings.HasPrefix(contentType, "application/x-msdownload") ||
		strings.HasPrefix(contentType, "application/x-executable") {
		return ErrMimeMismatch
	}

	return nil
}

// Save 保存文件并返回稳定的相对路径
// 文件名使用 UUID 前缀防止覆盖与路径注入
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if err := s.Validate(fh); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("%s-%d%s", uuid.New().String(), time.Now().Unix(), ext)
	dst := filepath.Join(s.dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}

	return dst, nil
}
