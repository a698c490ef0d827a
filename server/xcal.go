package server

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/emersion/go-ical"
)

// xCal (RFC 6321) rendering of an iCalendar object.

const xcalNamespace = "urn:ietf:params:xml:ns:icalendar-2.0"

// xcalValueKind names the value element used for each property. Unlisted
// properties are rendered as text.
var xcalValueKind = map[string]string{
	ical.PropDateTimeStart:  "date-time",
	ical.PropDateTimeEnd:    "date-time",
	ical.PropDateTimeStamp:  "date-time",
	ical.PropExceptionDates: "date-time",
	ical.PropRecurrenceRule: "recur",
	ical.PropTrigger:        "duration",
}

// XCalDocument converts cal into an xCal document.
func XCalDocument(cal *ical.Calendar) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("icalendar")
	root.CreateAttr("xmlns", xcalNamespace)
	appendComponent(root, cal.Component)
	doc.Indent(2)
	return doc
}

// EncodeXCal writes cal as xCal.
func EncodeXCal(w io.Writer, cal *ical.Calendar) error {
	_, err := XCalDocument(cal).WriteTo(w)
	return err
}

func appendComponent(parent *etree.Element, comp *ical.Component) {
	el := parent.CreateElement(strings.ToLower(comp.Name))

	if len(comp.Props) > 0 {
		props := el.CreateElement("properties")
		for _, name := range slices.Sorted(maps.Keys(comp.Props)) {
			for _, prop := range comp.Props[name] {
				appendProperty(props, &prop)
			}
		}
	}

	if len(comp.Children) > 0 {
		children := el.CreateElement("components")
		for _, child := range comp.Children {
			appendComponent(children, child)
		}
	}
}

func appendProperty(parent *etree.Element, prop *ical.Prop) {
	el := parent.CreateElement(strings.ToLower(prop.Name))

	switch xcalValueKind[prop.Name] {
	case "date-time":
		for _, raw := range strings.Split(prop.Value, ",") {
			kind, value := xcalDateTime(strings.TrimSpace(raw))
			el.CreateElement(kind).SetText(value)
		}
	case "recur":
		recur := el.CreateElement("recur")
		for _, part := range strings.Split(prop.Value, ";") {
			key, value, ok := strings.Cut(part, "=")
			if !ok {
				continue
			}
			key = strings.ToLower(key)
			if key == "until" {
				_, value = xcalDateTime(value)
			}
			recur.CreateElement(key).SetText(value)
		}
	case "duration":
		el.CreateElement("duration").SetText(prop.Value)
	default:
		text, err := prop.Text()
		if err != nil {
			text = prop.Value
		}
		el.CreateElement("text").SetText(text)
	}
}

// xcalDateTime turns a basic-format DATE or DATE-TIME into the extended
// format xCal uses, returning the value element name and the text.
func xcalDateTime(v string) (string, string) {
	if len(v) == len("20060102") {
		return "date", v[0:4] + "-" + v[4:6] + "-" + v[6:8]
	}
	if len(v) < len("20060102T150405") || v[8] != 'T' {
		return "date-time", v
	}
	return "date-time", v[0:4] + "-" + v[4:6] + "-" + v[6:8] + "T" +
		v[9:11] + ":" + v[11:13] + ":" + v[13:15] + v[15:]
}
