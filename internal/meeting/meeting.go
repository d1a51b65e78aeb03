// Package meeting serves the meeting details and the debenture request-form
// links shown next to the holder lookup.
package meeting

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultFormURL = "https://example.com/form/default"

func defaultInfo() Info {
	return Info{
		LogoURL:  "https://www.inventech.co.th/wp-content/uploads/2022/11/invlogo_bb.png",
		TitleTH:  "การประชุมผู้ถือหุ้นกู้",
		TitleEN:  "Debentureholders Meeting",
		RemarkTH: "กรุณาติดต่อฝ่ายนักลงทุนสัมพันธ์ หากมีข้อสงสัย",
		RemarkEN: "Please contact Investor Relations if you have any questions",
	}
}

func defaultLinks() []Link {
	links := []Link{{Code: "rq1", URL: "http://localhost:5278/home"}}
	for i := 2; i <= 10; i++ {
		code := fmt.Sprintf("rq%d", i)
		links = append(links, Link{Code: code, URL: "https://example.com/form/" + code})
	}
	for i := range links {
		links[i].Label = "หุ้นกู้ / Debenture " + strings.ToUpper(links[i].Code)
	}
	return links
}

// Catalog holds the meeting details and form links. It is read-only after
// construction.
type Catalog struct {
	info       Info
	links      []Link
	byCode     map[string]string
	defaultURL string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, _ := newCatalog(defaultInfo(), defaultLinks(), defaultFormURL)
	return c
}

// Load reads a YAML catalog from path. An empty path yields Default. Fields
// missing from the file keep their built-in values.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read meeting config: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse meeting config: %w", err)
	}

	info := mergeInfo(defaultInfo(), f.Info)
	links := f.Debentures.Forms
	if len(links) == 0 {
		links = defaultLinks()
	}
	defaultURL := f.Debentures.DefaultURL
	if defaultURL == "" {
		defaultURL = defaultFormURL
	}
	return newCatalog(info, links, defaultURL)
}

func newCatalog(info Info, links []Link, defaultURL string) (*Catalog, error) {
	if err := checkURL(defaultURL); err != nil {
		return nil, fmt.Errorf("default_url: %w", err)
	}
	byCode := make(map[string]string, len(links))
	out := make([]Link, 0, len(links))
	for _, l := range links {
		l.Code = strings.TrimSpace(l.Code)
		if l.Code == "" {
			return nil, errors.New("debenture form without a code")
		}
		if _, dup := byCode[l.Code]; dup {
			return nil, fmt.Errorf("duplicate debenture code %q", l.Code)
		}
		if err := checkURL(l.URL); err != nil {
			return nil, fmt.Errorf("debenture %s: %w", l.Code, err)
		}
		if l.Label == "" {
			l.Label = l.Code
		}
		byCode[l.Code] = l.URL
		out = append(out, l)
	}
	return &Catalog{
		info:       info,
		links:      out,
		byCode:     byCode,
		defaultURL: defaultURL,
	}, nil
}

func mergeInfo(base, override Info) Info {
	if override.LogoURL != "" {
		base.LogoURL = override.LogoURL
	}
	if override.TitleTH != "" {
		base.TitleTH = override.TitleTH
	}
	if override.TitleEN != "" {
		base.TitleEN = override.TitleEN
	}
	if override.RemarkTH != "" {
		base.RemarkTH = override.RemarkTH
	}
	if override.RemarkEN != "" {
		base.RemarkEN = override.RemarkEN
	}
	return base
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}

func (c *Catalog) Info() Info {
	return c.info
}

// Links returns the form links in configured order.
func (c *Catalog) Links() []Link {
	out := make([]Link, len(c.links))
	copy(out, c.links)
	return out
}

// Resolve returns the form URL for code, or the default form URL when the
// code is unknown.
func (c *Catalog) Resolve(code string) string {
	if u, ok := c.byCode[code]; ok {
		return u
	}
	return c.defaultURL
}

// Known reports whether code is a configured debenture series.
func (c *Catalog) Known(code string) bool {
	_, ok := c.byCode[code]
	return ok
}
