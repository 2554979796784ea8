package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testcase_generator/internal/model"
)

// fakeBucket is an in-memory ObjectAPI
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	puts    []*s3.PutObjectInput
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return nil, b.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	b.puts = append(b.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func testSuite() model.Suite {
	return model.Suite{
		ID:        "4f6c2d0e-1111-2222-3333-444455556666",
		UserStory: "As a user I want to log in",
		TestCases: []model.TestCase{
			{ID: "TC-001", Title: "Valid login", Type: model.TestCasePositive, Steps: []string{"Open", "Submit"}, ExpectedResult: "Dashboard"},
		},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSuiteStores(t *testing.T) {
	stores := map[string]SuiteStore{
		"Memory": NewMemorySuiteStore(),
		"S3":     NewS3SuiteStore(newFakeBucket(), "suites-bucket"),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrSuiteNotFound)

			suite := testSuite()
			require.NoError(t, store.Save(ctx, suite))

			got, err := store.Get(ctx, suite.ID)
			require.NoError(t, err)
			assert.Equal(t, suite, got)
		})
	}
}

func TestS3SuiteStoreLayout(t *testing.T) {
	bucket := newFakeBucket()
	store := NewS3SuiteStore(bucket, "suites-bucket")

	require.NoError(t, store.Save(context.Background(), testSuite()))
	require.Len(t, bucket.puts, 1)
	assert.Equal(t, "suites-bucket", aws.ToString(bucket.puts[0].Bucket))
	assert.Equal(t, "suites/4f6c2d0e-1111-2222-3333-444455556666.json", aws.ToString(bucket.puts[0].Key))
	assert.Equal(t, "application/json", aws.ToString(bucket.puts[0].ContentType))
}

func TestS3SuiteStoreErrors(t *testing.T) {
	bucket := newFakeBucket()
	bucket.putErr = errors.New("access denied")
	store := NewS3SuiteStore(bucket, "suites-bucket")

	err := store.Save(context.Background(), testSuite())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	bucket.objects["suites-bucket/suites/bad.json"] = []byte("not json")
	_, err = store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSuiteNotFound)
}

func TestMemorySuiteStoreCopiesTestCases(t *testing.T) {
	store := NewMemorySuiteStore()
	suite := testSuite()
	require.NoError(t, store.Save(context.Background(), suite))

	suite.TestCases[0].Title = "changed"
	got, err := store.Get(context.Background(), suite.ID)
	require.NoError(t, err)
	assert.Equal(t, "Valid login", got.TestCases[0].Title)
}
