package storage

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "missing bucket", cfg: Config{}, wantErr: "S3_BUCKET is required"},
		{name: "unknown driver", cfg: Config{Bucket: "b", Driver: "gcs"}, wantErr: "unknown storage driver"},
		{name: "minio without endpoint", cfg: Config{Bucket: "b", Driver: DriverMinio}, wantErr: "S3_ENDPOINT is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, validateContentType("image/png"))
	assert.NoError(t, validateContentType("text/html"))
	assert.Error(t, validateContentType("audio/wav"))
}

func startMinio(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return endpoint
}

func TestObjectStore_Integration(t *testing.T) {
	endpoint := startMinio(t)

	for _, driver := range []string{DriverS3, DriverMinio} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			store, err := New(Config{
				Driver:    driver,
				Bucket:    "soundmap-test-" + uuid.New().String()[:8],
				Endpoint:  endpoint,
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			})
			require.NoError(t, err)

			require.NoError(t, store.EnsureBucket(ctx))
			// a second call finds the existing bucket
			require.NoError(t, store.EnsureBucket(ctx))

			data := []byte("\x89PNG\r\n\x1a\nfake")
			key := "renders/" + uuid.New().String() + ".png"
			require.NoError(t, store.Upload(ctx, key, "image/png", data))

			got, err := store.Download(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			url, err := store.GenerateDownloadURL(ctx, key)
			require.NoError(t, err)
			resp, err := http.Get(url)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, data, body)

			require.NoError(t, store.Delete(ctx, key))
			_, err = store.Download(ctx, key)
			assert.Error(t, err)

			assert.Error(t, store.Upload(ctx, "x.wav", "audio/wav", data))
		})
	}
}
