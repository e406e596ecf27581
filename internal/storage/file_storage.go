package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge возвращается, если файл больше допустимого размера.
var ErrTooLarge = errors.New("storage: файл превышает допустимый размер")

// FileStorage хранит загруженные файлы на диске и раздаёт их по /media.
type FileStorage struct {
	rootPath       string
	publicBaseURL  string
	maxUploadBytes int64
}

// NewFileStorage создаёт файловое хранилище.
func NewFileStorage(rootPath, publicBaseURL string, maxUploadMB int64) (*FileStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}

	return &FileStorage{
		rootPath:       rootPath,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

func (s *FileStorage) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// Save сохраняет файл в folder и возвращает относительный путь и размер.
func (s *FileStorage) Save(ctx context.Context, folder, originalName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	folder = sanitizeFilename(folder, "files")
	safeName := sanitizeFilename(originalName, "file")
	fileName := fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(safeName)))

	dir := filepath.Join(s.rootPath, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать каталог: %w", err)
	}

	targetPath := filepath.Join(dir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", 0, ErrTooLarge
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return path.Join(folder, fileName), written, nil
}

// URL возвращает публичную ссылку на сохранённый файл.
func (s *FileStorage) URL(relativePath string) string {
	return s.publicBaseURL + "/media/" + strings.TrimLeft(filepath.ToSlash(relativePath), "/")
}

// Delete удаляет файл из хранилища.
func (s *FileStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.Clean("/"+relativePath))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name, fallback string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" || name == "." {
		name = fallback
	}
	return name
}
