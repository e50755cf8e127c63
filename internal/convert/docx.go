package convert

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
)

// DocxToHTML converts a DOCX payload into HTML. The output is raw and must be
// passed through Sanitize before it reaches a renderer.
func DocxToHTML(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive", ErrUnsupportedFormat)
	}

	docXML, err := readZipEntry(reader, "word/document.xml")
	if err != nil {
		return "", fmt.Errorf("%w: word/document.xml missing", ErrMalformedDocument)
	}

	rels := map[string]string{}
	if relsXML, err := readZipEntry(reader, "word/_rels/document.xml.rels"); err == nil {
		rels = parseRelationships(relsXML)
	}

	htmlText, err := documentXMLToHTML(docXML, rels)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return htmlText, nil
}

func readZipEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if normalizeZipName(file.Name) == name {
			rc, err := file.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found", name)
}

func normalizeZipName(name string) string {
	return strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	Relationships []relationship `xml:"Relationship"`
}

func parseRelationships(data []byte) map[string]string {
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		out[r.ID] = r.Target
	}
	return out
}

// paragraph state gathered while walking one <w:p>.
type paragraphState struct {
	styleID string
	isList  bool
	ordered bool
	buf     strings.Builder
}

// run formatting gathered from <w:rPr>.
type runFormat struct {
	bold      bool
	italic    bool
	underline bool
}

func documentXMLToHTML(docXML []byte, rels map[string]string) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(docXML))

	var out strings.Builder
	var para *paragraphState
	var format runFormat
	var inRunProps bool
	var inParaProps bool
	var hyperlinkTarget string
	listOpen := "" // "ul", "ol" or ""

	flushParagraph := func() {
		if para == nil {
			return
		}
		text := para.buf.String()
		if para.isList {
			tag := "ul"
			if para.ordered {
				tag = "ol"
			}
			if listOpen != tag {
				if listOpen != "" {
					out.WriteString("</" + listOpen + ">")
				}
				out.WriteString("<" + tag + ">")
				listOpen = tag
			}
			out.WriteString("<li>" + text + "</li>")
			para = nil
			return
		}
		if listOpen != "" {
			out.WriteString("</" + listOpen + ">")
			listOpen = ""
		}
		if tag := headingTag(para.styleID); tag != "" {
			out.WriteString("<" + tag + ">" + text + "</" + tag + ">")
		} else if strings.TrimSpace(text) != "" {
			out.WriteString("<p>" + text + "</p>")
		}
		para = nil
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "p":
				flushParagraph()
				para = &paragraphState{}
			case "pPr":
				inParaProps = true
			case "rPr":
				inRunProps = true
				format = runFormat{}
			case "pStyle":
				if inParaProps && para != nil {
					para.styleID = attrValue(tok, "val")
				}
			case "numPr":
				if inParaProps && para != nil {
					para.isList = true
				}
			case "numId":
				if inParaProps && para != nil {
					// Convention from default numbering.xml: id 1 is ordered.
					para.ordered = attrValue(tok, "val") == "1"
				}
			case "b":
				if inRunProps && attrValue(tok, "val") != "false" && attrValue(tok, "val") != "0" {
					format.bold = true
				}
			case "i":
				if inRunProps && attrValue(tok, "val") != "false" && attrValue(tok, "val") != "0" {
					format.italic = true
				}
			case "u":
				if inRunProps && attrValue(tok, "val") != "none" {
					format.underline = true
				}
			case "hyperlink":
				if target, ok := rels[attrValue(tok, "id")]; ok {
					hyperlinkTarget = target
					if para != nil {
						para.buf.WriteString(`<a href="` + html.EscapeString(target) + `">`)
					}
				}
			case "t":
				var text string
				if err := decoder.DecodeElement(&text, &tok); err != nil {
					return "", err
				}
				if para != nil {
					para.buf.WriteString(wrapRun(html.EscapeString(text), format))
				}
			case "br", "cr":
				if para != nil {
					para.buf.WriteString("<br/>")
				}
			case "tab":
				if para != nil {
					para.buf.WriteString(" ")
				}
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "p":
				flushParagraph()
			case "pPr":
				inParaProps = false
			case "rPr":
				inRunProps = false
			case "r":
				format = runFormat{}
			case "hyperlink":
				if hyperlinkTarget != "" && para != nil {
					para.buf.WriteString("</a>")
				}
				hyperlinkTarget = ""
			}
		}
	}

	flushParagraph()
	if listOpen != "" {
		out.WriteString("</" + listOpen + ">")
	}
	return out.String(), nil
}

func wrapRun(text string, format runFormat) string {
	if text == "" {
		return text
	}
	if format.underline {
		text = "<u>" + text + "</u>"
	}
	if format.italic {
		text = "<em>" + text + "</em>"
	}
	if format.bold {
		text = "<strong>" + text + "</strong>"
	}
	return text
}

func headingTag(styleID string) string {
	switch strings.ToLower(styleID) {
	case "title", "heading1":
		return "h1"
	case "heading2":
		return "h2"
	case "heading3":
		return "h3"
	case "heading4", "heading5", "heading6":
		return "h4"
	default:
		return ""
	}
}

func attrValue(el xml.StartElement, local string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
