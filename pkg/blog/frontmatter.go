package blog

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// meta is the YAML front-matter block of a post file.
type meta struct {
	Date    string `yaml:"date"`
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	Preview string `yaml:"preview"`
	Image   string `yaml:"image"`
}

// encodePost renders a post as a Markdown file with YAML front-matter.
func encodePost(p Post) ([]byte, error) {
	fm, err := yaml.Marshal(meta{
		Date:    p.Date,
		Title:   p.Title,
		Tagline: p.Tagline,
		Preview: p.Preview,
		Image:   p.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString(frontMatterDelimiter)
	b.WriteByte('\n')
	b.Write(fm)
	b.WriteString(frontMatterDelimiter)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimLeft(p.Body, "\n"))
	if !strings.HasSuffix(p.Body, "\n") {
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

// decodePost parses a Markdown file with YAML front-matter. Files without a
// front-matter block decode with empty metadata and the full content as body.
func decodePost(slug string, data []byte) (Post, error) {
	post := Post{Slug: slug}
	content := string(data)

	rest, found := strings.CutPrefix(content, frontMatterDelimiter+"\n")
	if !found {
		post.Body = content
		return post, nil
	}
	fm, body, found := strings.Cut(rest, "\n"+frontMatterDelimiter)
	if !found {
		return post, fmt.Errorf("post %s: unterminated front matter", slug)
	}

	var m meta
	if err := yaml.Unmarshal([]byte(fm+"\n"), &m); err != nil {
		return post, fmt.Errorf("post %s: parse front matter: %w", slug, err)
	}
	post.Date = m.Date
	post.Title = m.Title
	post.Tagline = m.Tagline
	post.Preview = m.Preview
	post.Image = m.Image
	post.Body = strings.TrimPrefix(strings.TrimPrefix(body, "\n"), "\n")
	return post, nil
}
