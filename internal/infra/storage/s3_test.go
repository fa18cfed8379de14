package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/gestao-agenda/internal/config"
)

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com",
		PublicBaseURL(&config.Config{S3PublicBaseURL: "https://cdn.example.com/", S3Bucket: "fotos"}),
	)
	assert.Equal(t,
		"http://localhost:9000/fotos",
		PublicBaseURL(&config.Config{S3Endpoint: "http://localhost:9000", S3Bucket: "fotos"}),
	)
	assert.Equal(t,
		"https://fotos.s3.sa-east-1.amazonaws.com",
		PublicBaseURL(&config.Config{S3Bucket: "fotos", S3Region: "sa-east-1"}),
	)
}
