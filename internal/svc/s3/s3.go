package s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type Instance interface {
	UploadFile(ctx context.Context, opts *s3manager.UploadInput) error
	DownloadFile(ctx context.Context, output io.WriterAt, opts *awss3.GetObjectInput) error
	ComposeKey(parts ...string) string
	ListBuckets(ctx context.Context) (*awss3.ListBucketsOutput, error)
}

type inst struct {
	session    *session.Session
	downloader *s3manager.Downloader
	uploader   *s3manager.Uploader
	s3         *awss3.S3
	namespace  string
}

type Options struct {
	Region      string
	Endpoint    string
	AccessToken string
	SecretKey   string
	Namespace   string
}

func New(ctx context.Context, o Options) (Instance, error) {
	s, err := session.NewSession(&aws.Config{
		Region:           aws.String(o.Region),
		Endpoint:         aws.String(o.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		Credentials:      credentials.NewStaticCredentials(o.AccessToken, o.SecretKey, ""),
	})
	if err != nil {
		return nil, err
	}

	return &inst{
		session:    s,
		downloader: s3manager.NewDownloader(s),
		uploader:   s3manager.NewUploader(s),
		s3:         awss3.New(s),
		namespace:  o.Namespace,
	}, nil
}

func (i *inst) UploadFile(ctx context.Context, opts *s3manager.UploadInput) error {
	_, err := i.uploader.UploadWithContext(ctx, opts)

	return err
}

func (i *inst) DownloadFile(ctx context.Context, output io.WriterAt, opts *awss3.GetObjectInput) error {
	_, err := i.downloader.DownloadWithContext(ctx, output, opts)

	return err
}

func (i *inst) ComposeKey(parts ...string) string {
	k := i.namespace
	for _, p := range parts {
		if k == "" {
			k = p
			continue
		}

		k += "/" + p
	}

	return k
}

func (i *inst) ListBuckets(ctx context.Context) (*awss3.ListBucketsOutput, error) {
	return i.s3.ListBucketsWithContext(ctx, &awss3.ListBucketsInput{})
}
