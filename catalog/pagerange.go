package catalog

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"ptx/stephanus"
)

// scanPageRange reads the Stephanus numbers present in an edition file and
// summarizes them as "first-last". Returns "" when the file carries no
// recognizable Stephanus numbering.
func scanPageRange(path string, log *zap.Logger) string {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromFile(path); err != nil {
		log.Debug("Unable to scan edition for page range", zap.String("file", path), zap.Error(err))
		return ""
	}

	var first, last stephanus.Marker
	seen := false
	note := func(n string) {
		m, err := stephanus.ParseMarker(n)
		if err != nil {
			return
		}
		if !seen {
			first, last, seen = m, m, true
			return
		}
		if stephanus.Compare(m, first) < 0 {
			first = m
		}
		if stephanus.Compare(m, last) > 0 {
			last = m
		}
	}

	for _, el := range doc.FindElements("//milestone") {
		switch el.SelectAttrValue("unit", "") {
		case "section", "stephpage":
			note(el.SelectAttrValue("n", ""))
		}
	}
	for _, el := range doc.FindElements("//div") {
		if el.SelectAttrValue("type", "") == "textpart" && el.SelectAttrValue("subtype", "") == "section" {
			note(el.SelectAttrValue("n", ""))
		}
	}

	if !seen {
		return ""
	}
	if first == last {
		return first.String()
	}
	return first.String() + "-" + last.String()
}
