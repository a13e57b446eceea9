// Package store
package store

import (
	"context"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"github.com/tencentyun/cos-go-sdk-v5"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// TencentCosStore 先归档到本地, 再上传到腾讯云COS
type TencentCosStore struct {
	logger     log.LoggerInterface
	localStore *LocalStore
	config     *config.ArchiveStore
	client     *cos.Client
}

func NewTencentCosStore(
	logger log.LoggerInterface,
	config *config.ArchiveStore,
	localStore *LocalStore,
) *TencentCosStore {
	store := &TencentCosStore{logger: logger, localStore: localStore, config: config}
	bucketUrl, _ := url.Parse(fmt.Sprintf("https://%s.cos.%s.myqcloud.com", config.Bucket, strings.ToLower(config.Region)))
	serviceUrl, _ := url.Parse(fmt.Sprintf("https://cos.%s.myqcloud.com", strings.ToLower(config.Region)))
	baseUrl := &cos.BaseURL{BucketURL: bucketUrl, ServiceURL: serviceUrl}
	store.client = cos.NewClient(baseUrl, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  config.AccessId,
			SecretKey: config.AccessKey,
		},
	})
	return store
}

func (store *TencentCosStore) uploadFile(ctx context.Context, archived *ArchivedFile) error {
	reader, err := os.Open(archived.FilePath)
	if err != nil {
		store.logger.ErrorF("TencentCosStore.uploadFile open file error: %v", err)
		return err
	}
	defer func(reader *os.File) {
		_ = reader.Close()
	}(reader)

	if _, err = store.client.Object.Put(ctx, archived.RemotePath, reader, nil); err != nil {
		store.logger.ErrorF("TencentCosStore.uploadFile upload %s to remote storage error: %v", archived.RemotePath, err)
		return err
	}
	return nil
}

func (store *TencentCosStore) Archive(ctx context.Context, files []string) error {
	archived := make([]*ArchivedFile, 0, len(files))
	for _, file := range files {
		result, err := store.localStore.SaveFile(file)
		if err != nil {
			return err
		}
		if err := store.uploadFile(ctx, result); err != nil {
			return err
		}
		archived = append(archived, result)
	}
	removeSources(store.logger, store.config, archived)
	store.logger.InfoF("Uploaded %d file(s) to cos bucket %s", len(archived), store.config.Bucket)
	return nil
}

var _ fsd.Archiver = (*TencentCosStore)(nil)
