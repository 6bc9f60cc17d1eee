package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const s3Scheme = "s3://"

// S3Config holds configuration for the S3 receipt store
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
	Prefix          string
}

// S3ReceiptStore keeps receipts in an S3-compatible bucket.
// References have the form s3://<bucket>/<key>.
type S3ReceiptStore struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewS3ReceiptStore creates a new S3 receipt store
func NewS3ReceiptStore(config *S3Config) (*S3ReceiptStore, error) {
	if config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return newS3ReceiptStore(s3.New(sess), config.Bucket, config.Prefix), nil
}

func newS3ReceiptStore(client s3iface.S3API, bucket, prefix string) *S3ReceiptStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3ReceiptStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Save uploads the receipt and returns its s3:// reference
func (s *S3ReceiptStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", &StorageError{
			Op:  "save_receipt",
			Err: fmt.Errorf("failed to read receipt content: %w", err),
		}
	}

	key := s.prefix + name
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", &StorageError{
			Op:  "save_receipt",
			Err: fmt.Errorf("failed to upload to S3: %w", err),
		}
	}

	return s3Scheme + s.bucket + "/" + key, nil
}

// Remove deletes the object behind ref
func (s *S3ReceiptStore) Remove(ctx context.Context, ref string) error {
	exists, err := s.Exists(ctx, ref)
	if err != nil {
		return err
	}
	if !exists {
		return ErrReceiptNotFound
	}

	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return &StorageError{Op: "remove_receipt", Err: err}
	}

	_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &StorageError{
			Op:  "remove_receipt",
			Err: fmt.Errorf("failed to delete from S3: %w", err),
		}
	}

	return nil
}

// Exists checks for the object behind ref with a HEAD request
func (s *S3ReceiptStore) Exists(ctx context.Context, ref string) (bool, error) {
	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return false, &StorageError{Op: "stat_receipt", Err: err}
	}

	_, err = s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == http.StatusNotFound {
			return false, nil
		}
		return false, &StorageError{Op: "stat_receipt", Err: err}
	}

	return true, nil
}

// parseS3Ref splits s3://bucket/key into its parts
func parseS3Ref(ref string) (string, string, error) {
	if !strings.HasPrefix(ref, s3Scheme) {
		return "", "", fmt.Errorf("invalid S3 reference: %s", ref)
	}

	bucket, key, found := strings.Cut(strings.TrimPrefix(ref, s3Scheme), "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 reference: %s", ref)
	}

	return bucket, key, nil
}
