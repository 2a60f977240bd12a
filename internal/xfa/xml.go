package xfa

import (
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// Form types, tried in this order.
const (
	FormLarge = "F10L"
	FormSmall = "F10S"

	tableName = "Table1"
)

var formOrder = []string{FormLarge, FormSmall}

// parseXML reads an XFA packet. The document keeps namespace prefixes so it
// can be written back unchanged.
func parseXML(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, missing("XML root element")
	}
	return doc, nil
}

// findFirst returns the first element in depth-first document order for
// which match is true, starting with el itself.
func findFirst(el *etree.Element, match func(*etree.Element) bool) *etree.Element {
	if match(el) {
		return el
	}
	for _, ch := range el.ChildElements() {
		if found := findFirst(ch, match); found != nil {
			return found
		}
	}
	return nil
}

func hasName(name string) func(*etree.Element) bool {
	return func(el *etree.Element) bool {
		return el.SelectAttrValue("name", "") == name
	}
}

func hasTag(tag string) func(*etree.Element) bool {
	return func(el *etree.Element) bool {
		return el.Tag == tag
	}
}

// packetRoot narrows a full XDP document down to one packet ("template",
// "datasets"). Packets are direct children of the xdp root; deeper elements
// with the same tag (config/acrobat/common/template) are not packets. A
// document that already is the packet, or has none, is returned as is.
func packetRoot(root *etree.Element, packet string) *etree.Element {
	if root.Tag == packet {
		return root
	}
	for _, ch := range root.ChildElements() {
		if ch.Tag == packet {
			return ch
		}
	}
	return root
}

// detectForm finds the large form, then the small one. by picks the element
// matcher: template subforms carry a name attribute, data nodes a tag.
func detectForm(root *etree.Element, by func(string) func(*etree.Element) bool) (form string, el *etree.Element, err error) {
	for _, name := range formOrder {
		if el := findFirst(root, by(name)); el != nil {
			return name, el, nil
		}
		slog.Debug("XFA form not found, trying next", "form", name)
	}
	return "", nil, missing("form " + strings.Join(formOrder, "/"))
}

func findTable(form *etree.Element, by func(string) func(*etree.Element) bool) (*etree.Element, error) {
	// Skip form itself so a form named like the table is not matched.
	for _, ch := range form.ChildElements() {
		if t := findFirst(ch, by(tableName)); t != nil {
			return t, nil
		}
	}
	return nil, missing(tableName)
}

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	spaces     = regexp.MustCompile(`\s+`)
)

// elementText returns the first non-empty <text> value under el, falling
// back to the unescaped content of rich text (<exData>).
func elementText(el *etree.Element) string {
	if t := findFirst(el, func(e *etree.Element) bool {
		return e.Tag == "text" && strings.TrimSpace(e.Text()) != ""
	}); t != nil {
		return cleanText(t.Text())
	}
	if ex := findFirst(el, hasTag("exData")); ex != nil {
		var b strings.Builder
		collectCharData(ex, &b)
		s := html.UnescapeString(b.String())
		s = tagPattern.ReplaceAllString(s, " ")
		return cleanText(s)
	}
	return ""
}

func collectCharData(el *etree.Element, b *strings.Builder) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			collectCharData(t, b)
			b.WriteByte(' ')
		}
	}
}

func cleanText(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// isBold reports whether el has a nested <font weight="bold">.
func isBold(el *etree.Element) bool {
	return findFirst(el, func(e *etree.Element) bool {
		return e.Tag == "font" && strings.EqualFold(e.SelectAttrValue("weight", ""), "bold")
	}) != nil
}

// childByTag returns the first direct child with the given local tag.
func childByTag(el *etree.Element, tag string) *etree.Element {
	for _, ch := range el.ChildElements() {
		if ch.Tag == tag {
			return ch
		}
	}
	return nil
}
