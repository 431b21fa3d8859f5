package storage

import (
	"strings"
	"testing"

	"github.com/facepass-lab/backend/config"
	"github.com/stretchr/testify/require"
)

func TestGenerateUploadURL(t *testing.T) {
	s := &s3Storage{cfg: config.S3Configs{Region: "us-east-1"}}
	resp := s.generateUploadURL(&UploadObject{Bucket: "photos", Prefix: "/faces/", FileName: "a.jpg"})
	require.True(t, strings.HasPrefix(resp.Key, "faces/"))
	require.True(t, strings.HasSuffix(resp.Key, "-a.jpg"))
	require.Equal(t, "https://photos.s3.us-east-1.amazonaws.com/"+resp.Key, resp.URL)

	s.cfg.PublicEndpoint = "https://cdn.example.com/"
	resp = s.generateUploadURL(&UploadObject{Bucket: "photos", FileName: "b.png"})
	require.False(t, strings.Contains(resp.Key, "/"))
	require.Equal(t, "https://cdn.example.com/photos/"+resp.Key, resp.URL)
}
