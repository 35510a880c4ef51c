package page

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mmcdole/reverig/internal/workflow"
)

const (
	overlayStyle = "position:fixed;inset:0;background:rgba(0,0,0,0.6);z-index:99999;display:flex;align-items:center;justify-content:center;"
	shownStyle   = "display:block;"
	hiddenStyle  = "display:none;"
)

// OpenOverlay appends the overlay to the body unless one is present
func (d *Document) OpenOverlay(m workflow.Modal) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.findClass(ClassOverlay) != nil {
		return false
	}

	overlay := element(atom.Div, "class", ClassOverlay, "style", overlayStyle)
	modal := element(atom.Div, "class", ClassModal)
	overlay.AppendChild(modal)

	modal.AppendChild(element(atom.Div, "class", ClassTitle))
	modal.AppendChild(element(atom.Div, "class", ClassStatus))

	wrap := element(atom.Div, "class", ClassProgressWrap, "style", hiddenStyle)
	wrap.AppendChild(element(atom.Div, "class", ClassProgressBar, "style", "width:0%;"))
	modal.AppendChild(wrap)
	modal.AppendChild(element(atom.Div, "class", ClassPercent, "style", hiddenStyle))

	actions := element(atom.Div)
	action := element(atom.A, "href", "#", "class", defaultButtonClass+" "+ClassAction)
	action.AppendChild(element(atom.Span))
	actions.AppendChild(action)
	modal.AppendChild(actions)

	body := htmlquery.FindOne(d.root, "//body")
	if body == nil {
		body = d.root
	}
	body.AppendChild(overlay)

	d.render(overlay, m)
	return true
}

// RenderOverlay writes m into the open overlay
func (d *Document) RenderOverlay(m workflow.Modal) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	overlay := d.findClass(ClassOverlay)
	if overlay == nil {
		return false
	}
	d.render(overlay, m)
	return true
}

func (d *Document) OverlayOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.findClass(ClassOverlay) != nil
}

// CloseOverlay removes every overlay node
func (d *Document) CloseOverlay() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range htmlquery.Find(d.root, classXPath(ClassOverlay)) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// Overlay reads the modal state back from the document
func (d *Document) Overlay() (workflow.Modal, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	overlay := d.findClass(ClassOverlay)
	if overlay == nil {
		return workflow.Modal{}, false
	}

	m := workflow.Modal{
		Title:  innerText(overlay, ClassTitle),
		Status: innerText(overlay, ClassStatus),
		Action: innerText(overlay, ClassAction),
	}
	if wrap := childClass(overlay, ClassProgressWrap); wrap != nil {
		m.ProgressVisible = htmlquery.SelectAttr(wrap, "style") == shownStyle
	}
	_, _ = fmt.Sscanf(innerText(overlay, ClassPercent), "%d%%", &m.Percent)
	return m, true
}

// render writes m into the overlay's nodes. Caller holds d.mu.
func (d *Document) render(overlay *html.Node, m workflow.Modal) {
	if n := childClass(overlay, ClassTitle); n != nil {
		setText(n, m.Title)
	}
	if n := childClass(overlay, ClassStatus); n != nil {
		setText(n, m.Status)
	}

	display := hiddenStyle
	if m.ProgressVisible {
		display = shownStyle
	}
	if n := childClass(overlay, ClassProgressWrap); n != nil {
		setAttr(n, "style", display)
	}
	if n := childClass(overlay, ClassProgressBar); n != nil {
		setAttr(n, "style", fmt.Sprintf("width:%d%%;", m.Percent))
	}
	if n := childClass(overlay, ClassPercent); n != nil {
		setAttr(n, "style", display)
		setText(n, m.PercentText())
	}
	if n := childClass(overlay, ClassAction); n != nil {
		if span := htmlquery.FindOne(n, ".//span"); span != nil {
			setText(span, m.Action)
		}
	}
}

func childClass(n *html.Node, class string) *html.Node {
	return htmlquery.FindOne(n, "."+classXPath(class))
}

func innerText(n *html.Node, class string) string {
	if c := childClass(n, class); c != nil {
		return htmlquery.InnerText(c)
	}
	return ""
}
