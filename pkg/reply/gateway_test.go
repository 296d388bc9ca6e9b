package reply

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"reply field", `{"reply":"hello"}`, "hello"},
		{"output field", `{"output":"generated"}`, "generated"},
		{"reply wins over output", `{"reply":"a","output":"b"}`, "a"},
		{"bare string body", `"plain answer"`, "plain answer"},
		{"empty object", `{}`, Fallback},
		{"empty reply falls through", `{"reply":""}`, Fallback},
		{"non-json garbage", `<html>oops</html>`, Fallback},
		{"unrelated fields", `{"status":"ok"}`, Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode([]byte(tt.body)); got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestSendMessagePayload(t *testing.T) {
	var received webhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply":"ack"}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL)
	convID := uuid.New()

	text, err := gw.SendMessage(context.Background(), &Request{
		UserID:         "user-1",
		Message:        "how do I diversify?",
		ConversationID: convID,
		File:           &File{Name: "doc.pdf", Type: "application/pdf", Content: []byte("pdfbytes")},
	})

	assert.NoError(t, err)
	assert.Equal(t, "ack", text)
	assert.Equal(t, "user-1", received.UserID)
	assert.Equal(t, convID.String(), received.ConversationID)
	assert.Equal(t, "doc.pdf", received.FileName)
	assert.Equal(t, "application/pdf", received.FileType)
	assert.NotEmpty(t, received.FileContentBase64)
}

func TestSendMessageAnonymous(t *testing.T) {
	var received webhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = w.Write([]byte(`{"output":"ok"}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL)
	_, err := gw.SendMessage(context.Background(), &Request{
		Message:        "hi",
		ConversationID: uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, AnonymousUserID, received.UserID)
}

func TestSendMessageNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL)
	_, err := gw.SendMessage(context.Background(), &Request{
		Message:        "hi",
		ConversationID: uuid.New(),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestEncodeFileContentStripsDataURI(t *testing.T) {
	got := encodeFileContent([]byte("data:image/png;base64,AAAA"))
	assert.Equal(t, "AAAA", got)
}
