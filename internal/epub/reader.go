package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
)

const containerPath = "META-INF/container.xml"

// Reader is the built-in Provider backed by the EPUB zip container.
// It is stateless; every call opens the archive fresh.
type Reader struct{}

// NewReader constructs the zip-backed book structure provider.
func NewReader() *Reader {
	return &Reader{}
}

type containerDoc struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageDoc struct {
	Manifest []manifestItem `xml:"manifest>item"`
	Spine    []spineItem    `xml:"spine>itemref"`
}

type manifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type spineItem struct {
	IDRef string `xml:"idref,attr"`
}

// Chapters lists the spine's content documents in reading order. Each
// chapter's title is the document's first heading, falling back to
// "Chapter N" for documents without one.
func (r *Reader) Chapters(epubPath string) ([]ChapterInfo, error) {
	archive, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer archive.Close()

	docs, err := spineDocuments(&archive.Reader)
	if err != nil {
		return nil, err
	}

	chapters := make([]ChapterInfo, 0, len(docs))
	for i, doc := range docs {
		title := ""
		if file := findEntry(&archive.Reader, doc.path); file != nil {
			if heading, _, err := extractDocument(file); err == nil {
				title = heading
			}
		}
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		chapters = append(chapters, ChapterInfo{ID: doc.id, Title: title})
	}
	return chapters, nil
}

// ChapterText returns the plain text of the spine document with the given id.
func (r *Reader) ChapterText(epubPath, chapterID string) (string, error) {
	archive, err := zip.OpenReader(epubPath)
	if err != nil {
		return "", fmt.Errorf("open epub: %w", err)
	}
	defer archive.Close()

	docs, err := spineDocuments(&archive.Reader)
	if err != nil {
		return "", err
	}

	for _, doc := range docs {
		if doc.id != chapterID {
			continue
		}
		file := findEntry(&archive.Reader, doc.path)
		if file == nil {
			return "", fmt.Errorf("chapter document %q missing from archive", doc.path)
		}
		_, body, err := extractDocument(file)
		if err != nil {
			return "", fmt.Errorf("read chapter %q: %w", chapterID, err)
		}
		return body, nil
	}
	return "", fmt.Errorf("chapter %q not found in spine", chapterID)
}

var _ Provider = (*Reader)(nil)

type spineDocument struct {
	id   string
	path string
}

func spineDocuments(archive *zip.Reader) ([]spineDocument, error) {
	containerFile := findEntry(archive, containerPath)
	if containerFile == nil {
		return nil, fmt.Errorf("%s missing: not an epub container", containerPath)
	}

	var container containerDoc
	if err := decodeXML(containerFile, &container); err != nil {
		return nil, fmt.Errorf("parse container.xml: %w", err)
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return nil, fmt.Errorf("container.xml declares no rootfile")
	}

	opfPath := container.Rootfiles[0].FullPath
	opfFile := findEntry(archive, opfPath)
	if opfFile == nil {
		return nil, fmt.Errorf("package document %q missing from archive", opfPath)
	}

	var pkg packageDoc
	if err := decodeXML(opfFile, &pkg); err != nil {
		return nil, fmt.Errorf("parse package document: %w", err)
	}

	hrefs := make(map[string]manifestItem, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		hrefs[item.ID] = item
	}

	opfDir := path.Dir(opfPath)
	docs := make([]spineDocument, 0, len(pkg.Spine))
	for _, ref := range pkg.Spine {
		item, ok := hrefs[ref.IDRef]
		if !ok || !strings.Contains(item.MediaType, "html") {
			continue
		}
		href := item.Href
		if opfDir != "." {
			href = path.Join(opfDir, href)
		}
		docs = append(docs, spineDocument{id: ref.IDRef, path: href})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("spine contains no content documents")
	}
	return docs, nil
}

func findEntry(archive *zip.Reader, name string) *zip.File {
	cleaned := strings.TrimPrefix(name, "./")
	for _, file := range archive.File {
		if strings.TrimPrefix(file.Name, "./") == cleaned {
			return file
		}
	}
	return nil
}

func decodeXML(file *zip.File, v any) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// extractDocument pulls the first heading and the full body text out of an
// XHTML chapter document.
func extractDocument(file *zip.File) (heading, body string, err error) {
	rc, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer rc.Close()
	return extractText(rc)
}

func extractText(r io.Reader) (heading, body string, err error) {
	tokenizer := html.NewTokenizer(r)
	var bodyBuilder, headingBuilder strings.Builder
	headingDepth := 0
	headingDone := false
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				heading = strings.Join(strings.Fields(headingBuilder.String()), " ")
				body = strings.Join(strings.Fields(bodyBuilder.String()), " ")
				return heading, body, nil
			}
			return "", "", tokenizer.Err()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "title":
				skipDepth++
			case "h1", "h2", "h3":
				if !headingDone {
					headingDepth++
				}
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "title":
				if skipDepth > 0 {
					skipDepth--
				}
			case "h1", "h2", "h3":
				if headingDepth > 0 {
					headingDepth--
					if headingDepth == 0 && strings.TrimSpace(headingBuilder.String()) != "" {
						headingDone = true
					}
				}
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := string(tokenizer.Text())
			bodyBuilder.WriteString(text)
			bodyBuilder.WriteByte(' ')
			if headingDepth > 0 && !headingDone {
				headingBuilder.WriteString(text)
				headingBuilder.WriteByte(' ')
			}
		}
	}
}
