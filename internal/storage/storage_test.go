package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"dice-reader/internal/dice"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	keys    []string
}

func (f *fakeS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	key := aws.StringValue(in.Key)
	f.keys = append(f.keys, aws.StringValue(in.Bucket)+"/"+key)
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func encodeFace(t *testing.T, face int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 12, 12))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	for i := 0; i < face; i++ {
		img.SetGray(2+i, 2+i, color.Gray{Y: 20})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestS3SourceLoadsTemplates(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	for face := 1; face <= dice.Faces; face++ {
		fake.objects[dice.TemplatePath("templates", face)] = encodeFace(t, face)
	}
	src := NewS3SourceWithClient(fake, "dice", "templates")

	ts, err := dice.LoadTemplates(src, image.Rect(1, 1, 11, 11))
	require.NoError(t, err)
	assert.Equal(t, dice.Faces, ts.Len())
	assert.Equal(t, "dice/templates/1.png", fake.keys[0])

	tmpl, ok := ts.Get(3)
	require.True(t, ok)
	assert.Equal(t, image.Pt(10, 10), tmpl.Image.Bounds().Size())
}

func TestS3SourceMissingObject(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	src := NewS3SourceWithClient(fake, "dice", "templates")

	_, err := src.Open(4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://dice/templates/4.png")

	_, err = dice.LoadTemplates(src, image.Rectangle{})
	assert.ErrorIs(t, err, dice.ErrTemplateLoad)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey([]byte("photo-a"))
	assert.Equal(t, a, CacheKey([]byte("photo-a")))
	assert.NotEqual(t, a, CacheKey([]byte("photo-b")))
	assert.Len(t, a, len("dice:result:")+64)
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()
	cache := NewRedisCacheWithClient(client, time.Minute, logrus.New())

	ctx := context.Background()
	_, err := cache.Get(ctx, []byte("photo"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	assert.Error(t, cache.Set(ctx, []byte("photo"), []byte(`{"dice":[1]}`)))
}
