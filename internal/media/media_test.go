package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckContentType(t *testing.T) {
	assert.NoError(t, CheckContentType(KindPhoto, "image/jpeg"))
	assert.NoError(t, CheckContentType(KindVoiceNote, "audio/mpeg"))
	assert.NoError(t, CheckContentType(KindVoiceNote, "video/webm"))
	assert.ErrorIs(t, CheckContentType(KindPhoto, "audio/mpeg"), ErrUnsupportedType)
	assert.ErrorIs(t, CheckContentType(KindVoiceNote, "application/pdf"), ErrUnsupportedType)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(KindPhoto, "d1", "Beach.JPG")
	assert.True(t, strings.HasPrefix(key, "dates/d1/photos/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, ObjectKey(KindPhoto, "d1", "Beach.JPG"))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Upload(t *testing.T) {
	client := &fakeS3{}
	store := &S3Store{client: client, bucket: "journal", publicURL: "https://cdn.example.com"}

	url, err := store.Upload(context.Background(), "dates/d1/photos/p.jpg", "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/dates/d1/photos/p.jpg", url)
	assert.Equal(t, "journal", aws.ToString(client.input.Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(client.input.ContentType))
	assert.Equal(t, "jpeg", client.body)
}

func TestS3Store_UploadError(t *testing.T) {
	store := &S3Store{client: &fakeS3{err: errors.New("access denied")}, bucket: "journal"}
	_, err := store.Upload(context.Background(), "k", "image/png", strings.NewReader(""))
	assert.Error(t, err)
}
