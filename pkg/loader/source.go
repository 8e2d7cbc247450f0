package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Source opens dataset files by slash-separated relative name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// Lister is implemented by sources that can enumerate their languages.
type Lister interface {
	Languages(ctx context.Context) ([]string, error)
}

// FSSource reads datasets from an fs.FS.
type FSSource struct {
	FS    fs.FS
	Label string
}

// NewDirSource returns a source rooted at a directory on disk.
func NewDirSource(root string) *FSSource {
	if root == "" {
		root = "."
	}
	return &FSSource{FS: os.DirFS(root), Label: root}
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.FS.Open(name)
}

// Languages implements Lister.
func (s *FSSource) Languages(_ context.Context) ([]string, error) {
	return Languages(s.FS)
}

func (s *FSSource) String() string {
	if s.Label == "" {
		return "fs"
	}
	return s.Label
}

// Languages discovers the languages that have a dataset file in fsys.
// Only <lang>-reference-helper/<lang>-commands.json pairs count.
func Languages(fsys fs.FS) ([]string, error) {
	matches, err := doublestar.Glob(fsys, "*"+DatasetDirSuffix+"/*"+DatasetFileSuffix)
	if err != nil {
		return nil, fmt.Errorf("discover datasets: %w", err)
	}
	seen := make(map[string]bool, len(matches))
	langs := make([]string, 0, len(matches))
	for _, m := range matches {
		dir, file := path.Split(m)
		lang := strings.TrimSuffix(strings.TrimSuffix(dir, "/"), DatasetDirSuffix)
		if lang == "" || file != lang+DatasetFileSuffix || seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

// HTTPStatusError reports a non-2xx response from an HTTP source.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// HTTPSource fetches datasets relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource parses baseURL and returns a source that fetches with client.
// A nil client gets a default with a 30s timeout.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{base: u, client: client}, nil
}

// Open implements Source.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("dataset path %q: %w", name, err)
	}
	target := s.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, URL: target}
	}
	return resp.Body, nil
}

func (s *HTTPSource) String() string {
	return s.base.String()
}
