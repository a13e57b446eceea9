// Package store
package store

import (
	"context"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"os"
)

// ALiYunOssStore 先归档到本地, 再上传到阿里云OSS
type ALiYunOssStore struct {
	logger     log.LoggerInterface
	localStore *LocalStore
	config     *config.ArchiveStore
	client     *oss.Client
}

func NewALiYunOssStore(
	logger log.LoggerInterface,
	config *config.ArchiveStore,
	localStore *LocalStore,
) *ALiYunOssStore {
	store := &ALiYunOssStore{logger: logger, localStore: localStore, config: config}
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.AccessId, config.AccessKey)).
		WithRegion(config.Region).
		WithUseInternalEndpoint(config.UseInternalUrl)
	store.client = oss.NewClient(cfg)
	return store
}

func (store *ALiYunOssStore) uploadFile(ctx context.Context, archived *ArchivedFile) error {
	reader, err := os.Open(archived.FilePath)
	if err != nil {
		store.logger.ErrorF("ALiYunOssStore.uploadFile open file error: %v", err)
		return err
	}
	defer func(reader *os.File) {
		_ = reader.Close()
	}(reader)

	putRequest := &oss.PutObjectRequest{
		Bucket:       oss.Ptr(store.config.Bucket),
		Key:          oss.Ptr(archived.RemotePath),
		StorageClass: oss.StorageClassStandard,
		Body:         reader,
	}
	if _, err = store.client.PutObject(ctx, putRequest); err != nil {
		store.logger.ErrorF("ALiYunOssStore.uploadFile upload %s to remote storage error: %v", archived.RemotePath, err)
		return err
	}
	return nil
}

func (store *ALiYunOssStore) Archive(ctx context.Context, files []string) error {
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
	store.logger.InfoF("Uploaded %d file(s) to oss bucket %s", len(archived), store.config.Bucket)
	return nil
}

var _ fsd.Archiver = (*ALiYunOssStore)(nil)
