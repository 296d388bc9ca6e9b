package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	userID := uuid.New()
	key := BuildKey(userID, "extrato bancario.pdf")

	assert.True(t, strings.HasPrefix(key, userID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, "_extrato_bancario.pdf"))
	assert.NotContains(t, key, " ")
}

func TestBuildKeyStripsPath(t *testing.T) {
	key := BuildKey(uuid.New(), "../../etc/passwd")
	assert.NotContains(t, key, "..")
	assert.True(t, strings.HasSuffix(key, "_passwd"))
}

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "attachments", "service-key")
	url, err := c.Upload(context.Background(), "user/1_a.png", "image/png", []byte("png"))

	assert.NoError(t, err)
	assert.Equal(t, "/object/attachments/user/1_a.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte("png"), gotBody)
	assert.Equal(t, srv.URL+"/object/public/attachments/user/1_a.png", url)
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "attachments", "service-key")
	_, err := c.Upload(context.Background(), "k", "", nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
