// Package pubmed fetches open-access articles from PubMed Central via
// the NCBI E-utilities REST API.
package pubmed

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"biorag/internal/domain"
)

const defaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// noTitle is the placeholder when an article carries no usable title.
const noTitle = "No Title Found"

// Client fetches article full text from PubMed Central. NCBI asks for
// a contact email on every request and no more than a few requests per
// second, hence the per-article delay.
type Client struct {
	baseURL string
	email   string
	delay   time.Duration
	client  *http.Client
}

// Config configures the PubMed client.
type Config struct {
	BaseURL string
	Email   string
	Delay   time.Duration
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Email == "" {
		return nil, fmt.Errorf("%w: NCBI contact email not set", domain.ErrSourceUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Delay == 0 {
		cfg.Delay = time.Second
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		email:   cfg.Email,
		delay:   cfg.Delay,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Fetch searches PubMed Central for the topic and downloads up to max
// article bodies. Articles that fail to download or parse are skipped
// and reported in the second return value; only a failed search is an
// error. An empty result set is not an error.
func (c *Client) Fetch(ctx context.Context, topic string, max int) ([]domain.Document, []string, error) {
	ids, err := c.search(ctx, topic, max)
	if err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}

	var docs []domain.Document
	var skipped []string
	for i, id := range ids {
		if i > 0 {
			if err := wait(ctx, c.delay); err != nil {
				return docs, skipped, err
			}
		}
		doc, err := c.fetchArticle(ctx, id)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		if doc.Text == "" {
			skipped = append(skipped, fmt.Sprintf("%s: no body text", id))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, skipped, nil
}

func (c *Client) search(ctx context.Context, topic string, max int) ([]string, error) {
	if max <= 0 {
		max = 10
	}
	q := url.Values{}
	q.Set("db", "pmc")
	q.Set("term", topic)
	q.Set("retmax", fmt.Sprintf("%d", max))
	q.Set("email", c.email)

	body, err := c.get(ctx, "/esearch.fcgi", q)
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %v", domain.ErrSourceUnavailable, err)
	}
	var result struct {
		IDs []string `xml:"IdList>Id"`
	}
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", domain.ErrSourceUnavailable, err)
	}
	return result.IDs, nil
}

func (c *Client) fetchArticle(ctx context.Context, id string) (domain.Document, error) {
	q := url.Values{}
	q.Set("db", "pmc")
	q.Set("id", id)
	q.Set("rettype", "full")
	q.Set("retmode", "xml")
	q.Set("email", c.email)

	body, err := c.get(ctx, "/efetch.fcgi", q)
	if err != nil {
		return domain.Document{}, err
	}
	title, text, err := parseArticle(body)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{ID: id, Title: title, Text: text}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eutils returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// parseArticle extracts the article title and the concatenated text of
// all paragraph elements from a PMC full-text XML document.
func parseArticle(data []byte) (title, text string, err error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var paragraphs []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("parsing article XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "article-title":
			if title == "" {
				s, err := elementText(dec, &start)
				if err != nil {
					return "", "", err
				}
				title = strings.TrimSpace(s)
			}
		case "p":
			s, err := elementText(dec, &start)
			if err != nil {
				return "", "", err
			}
			if s = strings.TrimSpace(s); s != "" {
				paragraphs = append(paragraphs, s)
			}
		}
	}
	if title == "" {
		title = noTitle
	}
	return title, strings.Join(paragraphs, " "), nil
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// elementText decodes the element's full character data, including
// text nested inside inline markup.
func elementText(dec *xml.Decoder, start *xml.StartElement) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("parsing element %s: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String(), nil
}
