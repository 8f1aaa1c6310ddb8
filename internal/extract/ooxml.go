package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/infofinder/internal/common"
)

// node is a generic XML element that keeps child order.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

// is reports whether n has the given local name.
func (n *node) is(local string) bool {
	return n.XMLName.Local == local
}

// child returns the first direct child with the given local name.
func (n *node) child(local string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].is(local) {
			return &n.Nodes[i]
		}
	}
	return nil
}

// attr returns the value of the unprefixed attribute with the given local name.
func (n *node) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// nsAttr returns the value of a namespaced attribute, such as r:id.
func (n *node) nsAttr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Space != "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// ooxmlPackage is an opened DOCX/PPTX zip container.
type ooxmlPackage struct {
	path  string
	zr    *zip.ReadCloser
	files map[string]*zip.File
}

func openPackage(path string) (*ooxmlPackage, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, common.CodedError(common.CodeExtract, fmt.Errorf("%w: %s: %w", common.ErrMalformedDocument, path, err))
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &ooxmlPackage{path: path, zr: zr, files: files}, nil
}

func (p *ooxmlPackage) Close() error {
	return p.zr.Close()
}

func (p *ooxmlPackage) has(name string) bool {
	_, ok := p.files[name]
	return ok
}

// parse decodes one XML part of the package into a node tree.
func (p *ooxmlPackage) parse(name string) (*node, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, common.CodedError(common.CodeExtract, fmt.Errorf("%w: %s: missing part %s", common.ErrMalformedDocument, p.path, name))
	}
	rc, err := f.Open()
	if err != nil {
		return nil, common.CodedError(common.CodeExtract, fmt.Errorf("%w: %s: open %s: %w", common.ErrMalformedDocument, p.path, name, err))
	}
	defer rc.Close()

	var root node
	if err := xml.NewDecoder(io.LimitReader(rc, maxPartSize)).Decode(&root); err != nil {
		return nil, common.CodedError(common.CodeExtract, fmt.Errorf("%w: %s: parse %s: %w", common.ErrMalformedDocument, p.path, name, err))
	}
	return &root, nil
}

// maxPartSize caps how much of a single XML part is read.
const maxPartSize = 256 << 20
