package workspace

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

const (
	formatVersion = "4"
	rootName      = "ImportedWorkspace"
	folderName    = "Objects"
)

type placeFile struct {
	XMLName xml.Name `xml:"roblox"`
	Version string   `xml:"version,attr"`
	Meta    metaTag  `xml:"Meta"`
	Items   []item   `xml:"Item"`
}

type metaTag struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type item struct {
	Class      string     `xml:"class,attr"`
	Referent   string     `xml:"referent,attr"`
	Properties properties `xml:"Properties"`
	Items      []item     `xml:"Item"`
}

type properties struct {
	Strings []stringProperty `xml:"string"`
}

type stringProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

func namedItem(class, referent, name string) item {
	return item{
		Class:      class,
		Referent:   referent,
		Properties: properties{Strings: []stringProperty{{Name: "Name", Value: name}}},
	}
}

// Render emits the fixed Model > Folder envelope with one Item per object.
// Attribute values and text are escaped by the encoder.
func Render(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}

	folder := namedItem("Folder", "ITEMS", folderName)
	folder.Items = make([]item, 0, len(doc.Objects))
	for i, obj := range doc.Objects {
		class := obj.ClassName
		if class == "" {
			class = DefaultClassName
		}
		folder.Items = append(folder.Items, namedItem(class, "OBJ"+strconv.Itoa(i), obj.Name))
	}

	root := namedItem("Model", "ROOT", rootName)
	root.Items = []item{folder}

	file := placeFile{
		Version: formatVersion,
		Meta:    metaTag{Name: "ExternalSourceAssetFormat", Value: "Binary"},
		Items:   []item{root},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")
	if err := enc.Encode(file); err != nil {
		return nil, fmt.Errorf("encoding place xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding place xml: %w", err)
	}
	return buf.Bytes(), nil
}
