package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biorag/internal/domain"
)

const searchXML = `<?xml version="1.0"?>
<eSearchResult>
	<Count>3</Count>
	<IdList>
		<Id>1001</Id>
		<Id>1002</Id>
		<Id>1003</Id>
	</IdList>
</eSearchResult>`

func articleXML(title, body string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<pmc-articleset><article>
	<front><title-group><article-title>%s</article-title></title-group></front>
	<body><sec><p>%s</p><p>Second <italic>paragraph</italic>.</p></sec></body>
</article></pmc-articleset>`, title, body)
}

func newTestServer(t *testing.T, fetch func(w http.ResponseWriter, id string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pmc", r.URL.Query().Get("db"))
		assert.Equal(t, "test@example.org", r.URL.Query().Get("email"))
		switch r.URL.Path {
		case "/esearch.fcgi":
			_, _ = w.Write([]byte(searchXML))
		case "/efetch.fcgi":
			fetch(w, r.URL.Query().Get("id"))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: url, Email: "test@example.org", Delay: time.Millisecond, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_MissingEmail(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestClient_Fetch(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, id string) {
		_, _ = w.Write([]byte(articleXML("Article "+id, "Body of "+id+".")))
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	docs, skipped, err := c.Fetch(context.Background(), "CRISPR gene editing", 3)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, docs, 3)
	assert.Equal(t, "1001", docs[0].ID)
	assert.Equal(t, "Article 1001", docs[0].Title)
	assert.Equal(t, "Body of 1001. Second paragraph.", docs[0].Text)
}

func TestClient_FetchSkipsBadArticles(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, id string) {
		switch id {
		case "1002":
			http.Error(w, "gone", http.StatusBadGateway)
		case "1003":
			_, _ = w.Write([]byte(`<article><front><title-group><article-title>Empty</article-title></title-group></front><body/></article>`))
		default:
			_, _ = w.Write([]byte(articleXML("Good", "Some text.")))
		}
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	docs, skipped, err := c.Fetch(context.Background(), "topic", 3)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "1001", docs[0].ID)
	assert.Len(t, skipped, 2)
}

func TestClient_SearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, _, err := c.Fetch(context.Background(), "topic", 3)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestClient_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<eSearchResult><IdList></IdList></eSearchResult>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	docs, skipped, err := c.Fetch(context.Background(), "nothing matches", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, skipped)
}

func TestParseArticle_MissingTitle(t *testing.T) {
	title, text, err := parseArticle([]byte(`<article><body><p>Text only.</p></body></article>`))
	require.NoError(t, err)
	assert.Equal(t, "No Title Found", title)
	assert.Equal(t, "Text only.", text)
}
