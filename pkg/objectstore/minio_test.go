package objectstore_test

import (
	"testing"

	"boutique/pkg/objectstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinioStore(t *testing.T) {
	_, err := objectstore.NewMinioStore(objectstore.Config{})
	assert.Error(t, err)

	store, err := objectstore.NewMinioStore(objectstore.Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "set-images",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/set-images/sets/a/1.jpg", store.URL("sets/a/1.jpg"))

	secure, err := objectstore.NewMinioStore(objectstore.Config{Endpoint: "cdn.example.com", Bucket: "b", UseSSL: true})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/b/k", secure.URL("k"))
}
