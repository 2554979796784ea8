package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"testcase_generator/internal/model"
)

// ObjectAPI is the subset of the S3 client the store uses
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3SuiteStore implements SuiteStore using AWS S3, one JSON object per suite
type S3SuiteStore struct {
	client     ObjectAPI
	bucketName string
}

// NewS3SuiteStore creates a new S3SuiteStore instance
func NewS3SuiteStore(client ObjectAPI, bucketName string) *S3SuiteStore {
	return &S3SuiteStore{
		client:     client,
		bucketName: bucketName,
	}
}

// Get retrieves the suite stored under id
func (s *S3SuiteStore) Get(ctx context.Context, id string) (model.Suite, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.getKey(id)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return model.Suite{}, ErrSuiteNotFound
		}
		return model.Suite{}, fmt.Errorf("failed to get suite from S3: %w", err)
	}
	defer result.Body.Close()

	var suite model.Suite
	if err := json.NewDecoder(result.Body).Decode(&suite); err != nil {
		return model.Suite{}, fmt.Errorf("failed to decode suite: %w", err)
	}
	return suite, nil
}

// Save stores the suite, replacing any previous version
func (s *S3SuiteStore) Save(ctx context.Context, suite model.Suite) error {
	jsonData, err := json.Marshal(suite)
	if err != nil {
		return fmt.Errorf("failed to marshal suite: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.getKey(suite.ID)),
		Body:        bytes.NewReader(jsonData),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to store suite in S3: %w", err)
	}
	return nil
}

// getKey generates the S3 key for a suite
func (s *S3SuiteStore) getKey(id string) string {
	return fmt.Sprintf("suites/%s.json", id)
}
