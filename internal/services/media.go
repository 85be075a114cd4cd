package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"quill/internal/utils"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize 上传图片大小上限
const MaxImageSize = 10 << 20

// Upload is an image file received from a form.
type Upload struct {
	Filename string
	Data     []byte
}

// MediaStore persists uploaded blobs and returns the path later used to
// build their public URL.
type MediaStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, stored string) error
}

// DetectImage returns the MIME type of data, or an error when it is not an
// image format.
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("image larger than %d MB", MaxImageSize>>20)
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("unsupported file type %s", mtype.String())
	}
	return mtype.String(), nil
}

// FileStore keeps uploads on the local filesystem below Root/posts.
type FileStore struct {
	Root string
	Dir  string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root, Dir: "posts"}
}

func (s *FileStore) Save(_ context.Context, name string, data []byte) (string, error) {
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		name = "upload"
	}

	dir := filepath.Join(s.Root, s.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	// 同名文件存在时追加随机后缀
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			name = base + "_" + utils.RandString(7) + ext
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create media file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write media file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close media file: %w", err)
		}
		return path.Join(s.Dir, name), nil
	}
}

// Delete removes a blob returned by Save. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context, stored string) error {
	name := filepath.Base(filepath.Clean("/" + stored))
	if name == "/" || name == "." {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}
