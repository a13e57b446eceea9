// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"os"
	"path/filepath"
)

type StoreType int

const (
	StoreLocal StoreType = iota // 本地存储
	StoreALiYunOss              // 阿里云OSS存储
	StoreTencentCos             // 腾讯云对象存储
)

// ArchiveStore 断开连接后原始报文日志与网络统计文件的归档位置
type ArchiveStore struct {
	Enabled         bool      `json:"enabled" yaml:"enabled"`
	StoreType       StoreType `json:"store_type" yaml:"store_type"`
	Region          string    `json:"region" yaml:"region"`
	Bucket          string    `json:"bucket" yaml:"bucket"`
	AccessId        string    `json:"access_id" yaml:"access_id"`
	AccessKey       string    `json:"access_key" yaml:"access_key"`
	UseInternalUrl  bool      `json:"use_internal_url" yaml:"use_internal_url"`
	LocalStorePath  string    `json:"local_store_path" yaml:"local_store_path"`
	RemoteStorePath string    `json:"remote_store_path" yaml:"remote_store_path"`
	DeleteAfterSave bool      `json:"delete_after_save" yaml:"delete_after_save"`
}

func defaultArchiveStore() *ArchiveStore {
	return &ArchiveStore{
		Enabled:         false,
		StoreType:       StoreLocal,
		LocalStorePath:  "archive",
		RemoteStorePath: "fsd-client",
		DeleteAfterSave: false,
	}
}

func (config *ArchiveStore) checkValid(_ log.LoggerInterface) *ValidResult {
	if !config.Enabled {
		return ValidPass()
	}
	switch config.StoreType {
	case StoreLocal:
		if config.LocalStorePath == "" {
			return ValidFail(errors.New("invalid field http_server.store.local_store_path, path cannot be empty"))
		}
		if err := os.MkdirAll(filepath.Clean(config.LocalStorePath), global.DefaultDirectoryPermission); err != nil {
			return ValidFailWith(fmt.Errorf("error while creating local store path(%s)", config.LocalStorePath), err)
		}
	case StoreALiYunOss, StoreTencentCos:
		if config.Region == "" {
			return ValidFail(errors.New("invalid field http_server.store.region, region cannot be empty"))
		}
		if config.Bucket == "" {
			return ValidFail(errors.New("invalid field http_server.store.bucket, bucket cannot be empty"))
		}
		if config.AccessId == "" {
			return ValidFail(errors.New("invalid field http_server.store.access_id, access_id cannot be empty"))
		}
		if config.AccessKey == "" {
			return ValidFail(errors.New("invalid field http_server.store.access_key, access_key cannot be empty"))
		}
	default:
		return ValidFail(fmt.Errorf("invalid field http_server.store.store_type %d, only support 0, 1, 2", config.StoreType))
	}
	return ValidPass()
}
