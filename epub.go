package md2book

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/beevik/etree"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/pipeline"
)

// EPUB package layout.
const (
	epubMimetype     = "application/epub+zip"
	epubOPFPath      = "OEBPS/content.opf"
	epubContentDir   = "OEBPS/"
	epubStylesheet   = "styles/book.css"
	epubNavFile      = "nav.xhtml"
	epubNCXFile      = "toc.ncx"
	epubCoverFile    = "cover.xhtml"
	epubCoverImageID = "cover-image"
	xhtmlNS          = "http://www.w3.org/1999/xhtml"
	opsNS            = "http://www.idpf.org/2007/ops"
	opfNS            = "http://www.idpf.org/2007/opf"
	dcNS             = "http://purl.org/dc/elements/1.1/"
	ncxNS            = "http://www.daisy.org/z3986/2005/ncx/"
	containerNS      = "urn:oasis:names:tc:opendocument:xmlns:container"
	xhtmlMediaType   = "application/xhtml+xml"
)

// epubImageTypes are the cover media types EPUB readers must support.
var epubImageTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/gif":     true,
	"image/svg+xml": true,
	"image/webp":    true,
}

type manifestItem struct {
	id         string
	href       string
	mediaType  string
	properties string
}

type epubCover struct {
	href      string
	mediaType string
	data      []byte
}

// ChapterFileName is the name of chapter n inside the EPUB.
func ChapterFileName(n int) string {
	return fmt.Sprintf("chapter_%02d.xhtml", n)
}

// WriteEPUB writes book as an EPUB 3 package with an EPUB 2 NCX to w.
// A cover that is not a supported image is skipped with a warning.
func (c *Converter) WriteEPUB(ctx context.Context, book *Book, w io.Writer) (err error) {
	defer recoverPanic(&err)

	if len(book.Chapters) == 0 {
		return ErrNoChapters
	}
	meta := book.Metadata.WithDefaults()

	chapters := make([][]byte, len(book.Chapters))
	for i, ch := range book.Chapters {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := c.chapterDocument(ctx, meta, ch)
		if err != nil {
			return err
		}
		chapters[i] = data
	}

	cover := c.epubCover(book.CoverPath)

	zw := zip.NewWriter(w)
	ew := &entryWriter{zw: zw, log: c.log}

	// The mimetype entry must come first and be stored uncompressed.
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}
	if _, err := io.WriteString(mt, epubMimetype); err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}

	ew.doc("META-INF/container.xml", containerDocument())
	ew.raw(epubContentDir+epubStylesheet, []byte(c.epubCSS))

	items := []manifestItem{
		{id: "css", href: epubStylesheet, mediaType: "text/css"},
		{id: "nav", href: epubNavFile, mediaType: xhtmlMediaType, properties: "nav"},
		{id: "ncx", href: epubNCXFile, mediaType: "application/x-dtbncx+xml"},
	}
	var spine []string

	if cover != nil {
		ew.raw(epubContentDir+cover.href, cover.data)
		ew.doc(epubContentDir+epubCoverFile, coverDocument(meta, cover.href))
		items = append(items,
			manifestItem{id: epubCoverImageID, href: cover.href, mediaType: cover.mediaType, properties: "cover-image"},
			manifestItem{id: "cover", href: epubCoverFile, mediaType: xhtmlMediaType},
		)
		spine = append(spine, "cover")
	}
	spine = append(spine, "nav")

	for i, ch := range book.Chapters {
		id := fmt.Sprintf("chapter_%02d", ch.Index)
		ew.raw(epubContentDir+ChapterFileName(ch.Index), chapters[i])
		items = append(items, manifestItem{id: id, href: ChapterFileName(ch.Index), mediaType: xhtmlMediaType})
		spine = append(spine, id)
	}

	ew.doc(epubContentDir+epubNavFile, navDocument(meta, book.Chapters))
	ew.doc(epubContentDir+epubNCXFile, ncxDocument(meta, book.Chapters))
	ew.doc(epubOPFPath, c.packageDocument(meta, items, spine, cover != nil))

	if ew.err != nil {
		return ew.err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing EPUB archive: %w", err)
	}
	return nil
}

// entryWriter adds zip entries and keeps the first error.
type entryWriter struct {
	zw  *zip.Writer
	log *zap.Logger
	err error
}

func (e *entryWriter) raw(name string, data []byte) {
	if e.err != nil {
		return
	}
	f, err := e.zw.Create(name)
	if err != nil {
		e.err = fmt.Errorf("writing %s: %w", name, err)
		return
	}
	if _, err := f.Write(data); err != nil {
		e.err = fmt.Errorf("writing %s: %w", name, err)
		return
	}
	e.log.Debug("epub item written", zap.String("name", name), zap.Int("bytes", len(data)))
}

func (e *entryWriter) doc(name string, doc *etree.Document) {
	if e.err != nil {
		return
	}
	data, err := doc.WriteToBytes()
	if err != nil {
		e.err = fmt.Errorf("serializing %s: %w", name, err)
		return
	}
	e.raw(name, data)
}

func (c *Converter) epubCover(path string) *epubCover {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- cover path is user-provided
	if err != nil {
		c.log.Warn("cover skipped", zap.String("path", path), zap.Error(err))
		return nil
	}
	mt := mimetype.Detect(data)
	if !epubImageTypes[mt.String()] {
		c.log.Warn("cover skipped", zap.String("path", path), zap.String("type", mt.String()))
		return nil
	}
	return &epubCover{href: "images/cover" + mt.Extension(), mediaType: mt.String(), data: data}
}

// chapterDocument renders one chapter as a standalone XHTML file.
func (c *Converter) chapterDocument(ctx context.Context, meta Metadata, ch Chapter) ([]byte, error) {
	html, err := c.chapterHTML(ctx, ch)
	if err != nil {
		return nil, err
	}
	xhtml, err := pipeline.ToXHTML(html)
	if err != nil {
		return nil, fmt.Errorf("%w: chapter %d (%s): %v", ErrConversion, ch.Index, ch.Title, err)
	}

	frag := etree.NewDocument()
	if err := frag.ReadFromString("<div>" + xhtml + "</div>"); err != nil {
		return nil, fmt.Errorf("%w: chapter %d (%s): %v", ErrConversion, ch.Index, ch.Title, err)
	}

	doc, body := xhtmlDocument(ch.Heading(), meta.Language)
	section := body.CreateElement("section")
	section.CreateAttr("epub:type", "chapter")
	section.CreateAttr("id", "chapter-"+strconv.Itoa(ch.Index))
	section.CreateElement("h1").SetText(ch.Heading())
	section.CreateElement("hr")
	for _, tok := range append([]etree.Token(nil), frag.Root().Child...) {
		section.AddChild(tok)
	}

	// Chapters are not indented: whitespace inside <pre> is content.
	return doc.WriteToBytes()
}

func xhtmlDocument(title, lang string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", xhtmlNS)
	html.CreateAttr("xmlns:epub", opsNS)
	html.CreateAttr("lang", lang)
	html.CreateAttr("xml:lang", lang)

	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "UTF-8")
	head.CreateElement("title").SetText(title)
	link := head.CreateElement("link")
	link.CreateAttr("rel", "stylesheet")
	link.CreateAttr("type", "text/css")
	link.CreateAttr("href", epubStylesheet)

	return doc, html.CreateElement("body")
}

func containerDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	container := doc.CreateElement("container")
	container.CreateAttr("version", "1.0")
	container.CreateAttr("xmlns", containerNS)
	rootfile := container.CreateElement("rootfiles").CreateElement("rootfile")
	rootfile.CreateAttr("full-path", epubOPFPath)
	rootfile.CreateAttr("media-type", "application/oebps-package+xml")
	doc.Indent(2)
	return doc
}

func coverDocument(meta Metadata, href string) *etree.Document {
	doc, body := xhtmlDocument(meta.Title, meta.Language)
	section := body.CreateElement("section")
	section.CreateAttr("epub:type", "cover")
	img := section.CreateElement("img")
	img.CreateAttr("class", "cover")
	img.CreateAttr("src", href)
	img.CreateAttr("alt", meta.Title)
	doc.Indent(2)
	return doc
}

func navDocument(meta Metadata, chapters []Chapter) *etree.Document {
	doc, body := xhtmlDocument(meta.Title, meta.Language)
	nav := body.CreateElement("nav")
	nav.CreateAttr("epub:type", "toc")
	nav.CreateAttr("id", "toc")
	nav.CreateElement("h1").SetText("Table of Contents")
	ol := nav.CreateElement("ol")
	for _, ch := range chapters {
		a := ol.CreateElement("li").CreateElement("a")
		a.CreateAttr("href", ChapterFileName(ch.Index))
		a.SetText(ch.Heading())
	}
	doc.Indent(2)
	return doc
}

func ncxDocument(meta Metadata, chapters []Chapter) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	ncx := doc.CreateElement("ncx")
	ncx.CreateAttr("xmlns", ncxNS)
	ncx.CreateAttr("version", "2005-1")
	ncx.CreateAttr("xml:lang", meta.Language)

	head := ncx.CreateElement("head")
	for _, m := range [][2]string{
		{"dtb:uid", meta.Identifier},
		{"dtb:depth", "1"},
		{"dtb:totalPageCount", "0"},
		{"dtb:maxPageNumber", "0"},
	} {
		el := head.CreateElement("meta")
		el.CreateAttr("name", m[0])
		el.CreateAttr("content", m[1])
	}
	ncx.CreateElement("docTitle").CreateElement("text").SetText(meta.Title)
	ncx.CreateElement("docAuthor").CreateElement("text").SetText(meta.Author)

	navMap := ncx.CreateElement("navMap")
	for i, ch := range chapters {
		point := navMap.CreateElement("navPoint")
		point.CreateAttr("id", "navpoint-"+strconv.Itoa(i+1))
		point.CreateAttr("playOrder", strconv.Itoa(i+1))
		point.CreateElement("navLabel").CreateElement("text").SetText(ch.Heading())
		point.CreateElement("content").CreateAttr("src", ChapterFileName(ch.Index))
	}
	doc.Indent(2)
	return doc
}

func (c *Converter) packageDocument(meta Metadata, items []manifestItem, spine []string, hasCover bool) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	pkg := doc.CreateElement("package")
	pkg.CreateAttr("xmlns", opfNS)
	pkg.CreateAttr("version", "3.0")
	pkg.CreateAttr("unique-identifier", "bookid")
	pkg.CreateAttr("xml:lang", meta.Language)

	md := pkg.CreateElement("metadata")
	md.CreateAttr("xmlns:dc", dcNS)
	md.CreateAttr("xmlns:opf", opfNS)
	id := md.CreateElement("dc:identifier")
	id.CreateAttr("id", "bookid")
	id.SetText(meta.Identifier)
	md.CreateElement("dc:title").SetText(meta.Title)
	md.CreateElement("dc:language").SetText(meta.Language)
	creator := md.CreateElement("dc:creator")
	creator.CreateAttr("id", "creator")
	creator.SetText(meta.Author)
	md.CreateElement("dc:publisher").SetText(meta.Publisher)
	if meta.ISODate != "" {
		md.CreateElement("dc:date").SetText(meta.ISODate)
	}
	modified := md.CreateElement("meta")
	modified.CreateAttr("property", "dcterms:modified")
	modified.SetText(c.now().UTC().Format("2006-01-02T15:04:05Z"))
	if hasCover {
		// EPUB 2 readers find the cover through this element.
		cover := md.CreateElement("meta")
		cover.CreateAttr("name", "cover")
		cover.CreateAttr("content", epubCoverImageID)
	}

	manifest := pkg.CreateElement("manifest")
	for _, it := range items {
		item := manifest.CreateElement("item")
		item.CreateAttr("id", it.id)
		item.CreateAttr("href", it.href)
		item.CreateAttr("media-type", it.mediaType)
		if it.properties != "" {
			item.CreateAttr("properties", it.properties)
		}
	}

	sp := pkg.CreateElement("spine")
	sp.CreateAttr("toc", "ncx")
	for _, idref := range spine {
		sp.CreateElement("itemref").CreateAttr("idref", idref)
	}

	doc.Indent(2)
	return doc
}
