// Package store 原始报文日志与网络统计文件的归档
package store

import (
	"context"
	"errors"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrUnsupportedStore = errors.New("unsupported store type")

// ArchivedFile 一个已归档文件在本地与远端的位置
type ArchivedFile struct {
	Source     string
	FileName   string
	FilePath   string
	RemotePath string
}

// archiveName 按日期分目录, 避免同一目录下文件过多
func archiveName(source string, now time.Time) string {
	return filepath.Join(now.Format("2006-01-02"), filepath.Base(source))
}

func remotePath(root string, fileName string) string {
	return strings.Replace(filepath.Join(root, fileName), "\\", "/", -1)
}

type LocalStore struct {
	logger log.LoggerInterface
	config *config.ArchiveStore
	now    func() time.Time
}

func NewLocalStore(logger log.LoggerInterface, config *config.ArchiveStore) *LocalStore {
	return &LocalStore{
		logger: logger,
		config: config,
		now:    time.Now,
	}
}

// SaveFile 将文件复制到本地归档目录
func (store *LocalStore) SaveFile(source string) (*ArchivedFile, error) {
	archived := &ArchivedFile{Source: source, FileName: archiveName(source, store.now())}
	archived.FilePath = filepath.Join(store.config.LocalStorePath, archived.FileName)
	archived.RemotePath = remotePath(store.config.RemoteStorePath, archived.FileName)

	if err := os.MkdirAll(filepath.Dir(archived.FilePath), global.DefaultDirectoryPermission); err != nil {
		store.logger.ErrorF("LocalStore.SaveFile create directory error: %v", err)
		return nil, err
	}
	src, err := os.Open(source)
	if err != nil {
		store.logger.ErrorF("LocalStore.SaveFile open file error: %v", err)
		return nil, err
	}
	defer func(src *os.File) {
		_ = src.Close()
	}(src)
	dst, err := os.OpenFile(archived.FilePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, global.DefaultFilePermissions)
	if err != nil {
		store.logger.ErrorF("LocalStore.SaveFile create file error: %v", err)
		return nil, err
	}
	defer func(dst *os.File) {
		_ = dst.Close()
	}(dst)
	if _, err = io.Copy(dst, src); err != nil {
		store.logger.ErrorF("LocalStore.SaveFile copy file error: %v", err)
		return nil, err
	}
	return archived, nil
}

// removeSources 归档成功后按配置删除源文件
func removeSources(logger log.LoggerInterface, config *config.ArchiveStore, files []*ArchivedFile) {
	if !config.DeleteAfterSave {
		return
	}
	for _, file := range files {
		if err := os.Remove(file.Source); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.WarnF("Fail to remove archived file %s, %v", file.Source, err)
		}
	}
}

func (store *LocalStore) Archive(ctx context.Context, files []string) error {
	archived := make([]*ArchivedFile, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := store.SaveFile(file)
		if err != nil {
			return err
		}
		archived = append(archived, result)
	}
	removeSources(store.logger, store.config, archived)
	store.logger.InfoF("Archived %d file(s) to %s", len(archived), store.config.LocalStorePath)
	return nil
}

// NewArchiver 按配置选择归档位置, 未启用时返回nil
func NewArchiver(logger log.LoggerInterface, storeConfig *config.ArchiveStore) (fsd.Archiver, error) {
	if storeConfig == nil || !storeConfig.Enabled {
		return nil, nil
	}
	localStore := NewLocalStore(logger, storeConfig)
	switch storeConfig.StoreType {
	case config.StoreLocal:
		return localStore, nil
	case config.StoreALiYunOss:
		return NewALiYunOssStore(logger, storeConfig, localStore), nil
	case config.StoreTencentCos:
		return NewTencentCosStore(logger, storeConfig, localStore), nil
	default:
		return nil, ErrUnsupportedStore
	}
}

var _ fsd.Archiver = (*LocalStore)(nil)
