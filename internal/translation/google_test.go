package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LazyFu/auto-subtitle/internal/config"
)

func TestGoogleClientTranslate(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query = map[string]string{
			"client": q.Get("client"),
			"sl":     q.Get("sl"),
			"tl":     q.Get("tl"),
			"dt":     q.Get("dt"),
			"q":      q.Get("q"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[["Hola. ","Hello. ",null,null,10],["¿Cómo estás?","How are you?",null,null,10]],null,"en",null,null,null,1]`))
	}))
	defer server.Close()

	client := NewGoogleClient(WithEndpoint(server.URL))
	got, err := client.Translate(context.Background(), "Hello. How are you?", "es")
	require.NoError(t, err)
	assert.Equal(t, "Hola. ¿Cómo estás?", got)
	assert.Equal(t, map[string]string{
		"client": "gtx",
		"sl":     "auto",
		"tl":     "es",
		"dt":     "t",
		"q":      "Hello. How are you?",
	}, query)
}

func TestGoogleClientHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewGoogleClient(WithEndpoint(server.URL)).Translate(context.Background(), "Hello", "es")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 429")
}

func TestGoogleClientRequiresTarget(t *testing.T) {
	_, err := NewGoogleClient().Translate(context.Background(), "Hello", " ")
	assert.Error(t, err)
}

func TestParseGTXResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "single chunk", body: `[[["Bonjour","Hello",null,null,1]],null,"en"]`, want: "Bonjour"},
		{name: "skips non-string chunk", body: `[[[null,"x"],["Salut","Hi"]],null,"en"]`, want: "Salut"},
		{name: "empty array", body: `[]`, wantErr: true},
		{name: "no text", body: `[[],null,"en"]`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
		{name: "wrong shape", body: `["x"]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGTXResponse([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClientSelectsProvider(t *testing.T) {
	cfg := config.Default()

	client, err := NewClient(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &GoogleClient{}, client)

	cfg.Translation.Provider = config.ProviderLLM
	cfg.LLM.APIKey = "key"
	client, err = NewClient(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &LLMClient{}, client)

	cfg.Translation.Provider = "babelfish"
	_, err = NewClient(&cfg)
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	client := NewGoogleClient(WithTimeout(0))
	assert.Equal(t, defaultGoogleTimeout, client.httpClient.Timeout)
	client = NewGoogleClient(WithTimeout(5 * time.Second))
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}
