package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootListing = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>free-resources</Name>
  <Prefix></Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <Delimiter>/</Delimiter>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>a.pdf</Key>
    <ETag>&#34;0cc175b9c0f1b6a831c399e269772661&#34;</ETag>
    <Size>12</Size>
  </Contents>
  <CommonPrefixes>
    <Prefix>b/</Prefix>
  </CommonPrefixes>
</ListBucketResult>`

func newTestStorage(t *testing.T, handler http.HandlerFunc) *S3Storage {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	u, _ := url.Parse(srv.URL)
	client, err := NewClient(Config{
		Endpoint:  u.Host,
		AccessKey: "access",
		SecretKey: "secret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return NewS3Storage(client, "free-resources")
}

func TestListSingleLevel(t *testing.T) {
	s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Query().Get("delimiter"))
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(rootListing))
	})

	entries, err := s.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]bool{}
	for _, e := range entries {
		byName[e.Name] = e.IsFolder()
	}
	assert.Equal(t, map[string]bool{"a.pdf": false, "b": true}, byName)
}

func TestSignedURL(t *testing.T) {
	s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})

	signed, err := s.SignedURL(context.Background(), "b/c.pdf", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, signed, "/free-resources/b/c.pdf")
	assert.Contains(t, signed, "X-Amz-Expires=3600")
	assert.True(t, strings.Contains(signed, "X-Amz-Signature="))
}
