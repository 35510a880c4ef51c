// Package page renders the workflow into a storefront HTML document.
//
// Document implements workflow.Surface over a parsed x/net/html tree. The
// controller's writes become nodes with fixed class names, so the rendered
// page can be inspected or served after every transition.
package page

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/workflow"
)

// ErrNoButtonRow indicates the document has none of the known button containers
var ErrNoButtonRow = workflow.ErrNoButtonRow

// Class names and attributes written into the document
const (
	ClassToolButton    = "reverig-tool-button"
	ClassRestartButton = "reverig-tool-restart-button"
	ClassOverlay       = "reverig-tool-overlay"
	ClassModal         = "reverig-tool-modal"
	ClassTitle         = "reverig-tool-title"
	ClassStatus        = "reverig-tool-status"
	ClassProgressWrap  = "reverig-tool-progress-wrap"
	ClassProgressBar   = "reverig-tool-progress-bar"
	ClassPercent       = "reverig-tool-percent"
	ClassAction        = "reverig-tool-action"

	ModeAttr    = "data-reverig-tool-mode"
	TooltipAttr = "data-tooltip-text"
	StylesID    = "reverig-tool-styles"

	RestartLabel = domain.LabelRestart

	defaultButtonClass = "btnv6_blue_hoverfade btn_medium"
	buttonStyles       = ".reverig-tool-restart-button, .reverig-tool-button{ margin-left:6px !important; }"
)

// buttonRowXPaths are tried in order; the first match holds the buttons
var buttonRowXPaths = []string{
	classXPath("steamdb-buttons"),
	"//*[@data-steamdb-buttons]",
	classXPath("apphub_OtherSiteInfo"),
}

func classXPath(class string) string {
	return fmt.Sprintf("//*[contains(concat(' ', normalize-space(@class), ' '), ' %s ')]", class)
}

// Document is a storefront page. It is safe for concurrent use.
type Document struct {
	mu     sync.Mutex
	root   *html.Node
	url    string
	logger *slog.Logger
}

// Parse reads a document. pageURL may be empty; AppID then falls back to
// the canonical link or og:url of the page.
func Parse(r io.Reader, pageURL string, logger *slog.Logger) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Document{root: root, url: pageURL, logger: logger.With("component", "page")}, nil
}

// ParseFile reads a document from disk
func ParseFile(path, pageURL string, logger *slog.Logger) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return Parse(bytes.NewReader(data), pageURL, logger)
}

// URL returns the page URL, discovering it from the document when unset
func (d *Document) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.url != "" {
		return d.url
	}
	if n := htmlquery.FindOne(d.root, `//link[@rel="canonical"]`); n != nil {
		return htmlquery.SelectAttr(n, "href")
	}
	if n := htmlquery.FindOne(d.root, `//meta[@property="og:url"]`); n != nil {
		return htmlquery.SelectAttr(n, "content")
	}
	return ""
}

// AppID extracts the identifier from the page URL
func (d *Document) AppID() (domain.AppID, error) {
	return domain.AppIDFromURL(d.URL())
}

// Title returns the store title of the page, or "" when none is found
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := htmlquery.FindOne(d.root, `//div[@id="appHubAppName"]`); n != nil {
		return strings.TrimSpace(htmlquery.InnerText(n))
	}
	if n := htmlquery.FindOne(d.root, `//meta[@property="og:title"]`); n != nil {
		return strings.TrimSpace(htmlquery.SelectAttr(n, "content"))
	}
	if n := htmlquery.FindOne(d.root, `//title`); n != nil {
		return strings.TrimSpace(htmlquery.InnerText(n))
	}
	return ""
}

// Render writes the document as HTML
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document, returning "" on error
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// WriteFile renders the document to path
func (d *Document) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// buttonRow returns the first known button container. Caller holds d.mu.
func (d *Document) buttonRow() *html.Node {
	for _, xpath := range buttonRowXPaths {
		if n := htmlquery.FindOne(d.root, xpath); n != nil {
			return n
		}
	}
	return nil
}

// findClass returns the first element carrying class. Caller holds d.mu.
func (d *Document) findClass(class string) *html.Node {
	return htmlquery.FindOne(d.root, classXPath(class))
}

func (d *Document) HasButtonRow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buttonRow() != nil
}

func (d *Document) HasRestartButton() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.findClass(ClassRestartButton) != nil
}

// InsertRestartButton places the restart button after the row's first link
func (d *Document) InsertRestartButton() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	row := d.buttonRow()
	if row == nil {
		return ErrNoButtonRow
	}
	if d.findClass(ClassRestartButton) != nil {
		return nil
	}
	d.ensureStyles()

	ref := htmlquery.FindOne(row, ".//a")
	btn := newButton(ref, ClassRestartButton, RestartLabel)
	if ref != nil && ref.Parent != nil {
		insertAfter(ref, btn)
	} else {
		row.AppendChild(btn)
	}
	d.logger.Debug("inserted restart button")
	return nil
}

func (d *Document) HasToolButton() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.findClass(ClassToolButton) != nil
}

// InsertToolButton places the tool button after the restart button, else
// after the row's first link, else at the end of the row
func (d *Document) InsertToolButton(mode domain.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	row := d.buttonRow()
	if row == nil {
		return ErrNoButtonRow
	}
	if d.findClass(ClassToolButton) != nil {
		return nil
	}
	d.ensureStyles()

	ref := htmlquery.FindOne(row, ".//a")
	btn := newButton(ref, ClassToolButton, mode.Label())
	setAttr(btn, ModeAttr, string(mode))

	switch restart := d.findClass(ClassRestartButton); {
	case restart != nil && restart.Parent != nil:
		insertAfter(restart, btn)
	case ref != nil && ref.Parent != nil:
		insertAfter(ref, btn)
	default:
		row.AppendChild(btn)
	}
	return nil
}

func (d *Document) ButtonMode() domain.Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	btn := d.findClass(ClassToolButton)
	if btn == nil {
		return domain.ModeAdd
	}
	return domain.ParseMode(htmlquery.SelectAttr(btn, ModeAttr))
}

// SetButtonMode rewrites the tool button's mode, label and tooltip
func (d *Document) SetButtonMode(mode domain.Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	btn := d.findClass(ClassToolButton)
	if btn == nil {
		return
	}
	setAttr(btn, ModeAttr, string(mode))
	setAttr(btn, "title", mode.Label())
	setAttr(btn, TooltipAttr, mode.Label())
	if span := htmlquery.FindOne(btn, ".//span"); span != nil {
		setText(span, mode.Label())
	}
}

// ensureStyles adds the spacing style element once. Caller holds d.mu.
func (d *Document) ensureStyles() {
	if htmlquery.FindOne(d.root, fmt.Sprintf(`//*[@id=%q]`, StylesID)) != nil {
		return
	}
	parent := htmlquery.FindOne(d.root, "//head")
	if parent == nil {
		parent = d.root
	}
	style := element(atom.Style, "id", StylesID)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: buttonStyles})
	parent.AppendChild(style)
}

// newButton builds an anchor styled like ref with a span label
func newButton(ref *html.Node, class, label string) *html.Node {
	classes := defaultButtonClass
	if ref != nil {
		if c := strings.TrimSpace(htmlquery.SelectAttr(ref, "class")); c != "" {
			classes = c
		}
	}
	btn := element(atom.A,
		"href", "#",
		"class", classes+" "+class,
		"title", label,
		TooltipAttr, label,
	)
	span := element(atom.Span)
	setText(span, label)
	btn.AppendChild(span)
	return btn
}

// element creates an element node with attribute key/value pairs
func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// setText replaces the children of n with a single text node
func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func insertAfter(ref, n *html.Node) {
	ref.Parent.InsertBefore(n, ref.NextSibling)
}
