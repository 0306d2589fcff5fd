// Package s3 предоставляет функционал для получения аудиофайлов и обложек из Amazon S3
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Config содержит настройки для S3
type Config struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// objectDownloader часть s3manager.Downloader, используемая пакетом
type objectDownloader interface {
	DownloadWithContext(ctx aws.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*s3manager.Downloader)) (int64, error)
}

// Downloader обертка для S3 downloader
type Downloader struct {
	s3Downloader objectDownloader
}

// NewDownloader создает новый S3 downloader
func NewDownloader(config *Config) (*Downloader, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
	}

	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		)
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return &Downloader{
		s3Downloader: s3manager.NewDownloader(sess),
	}, nil
}

// Download скачивает объект целиком в память
func (d *Downloader) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := aws.NewWriteAtBuffer(nil)

	_, err := d.s3Downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка скачивания s3://%s/%s: %w", bucket, key, err)
	}

	return buf.Bytes(), nil
}

// ParseLocator разбирает адрес вида s3://bucket/key
func ParseLocator(locator string) (bucket, key string, err error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", "", fmt.Errorf("некорректный адрес S3: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("ожидалась схема s3://, получено: %s", locator)
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("в адресе %s должны быть указаны бакет и ключ", locator)
	}
	return bucket, key, nil
}
