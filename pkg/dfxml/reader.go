package dfxml

import (
	"encoding/xml"
	"io"
)

// ReadFileObjects decodes every <fileobject> element of a DFXML document.
func ReadFileObjects(r io.Reader) ([]FileObject, error) {
	dec := xml.NewDecoder(r)
	var fileObjects []FileObject

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		startElem, ok := tok.(xml.StartElement)
		if !ok || startElem.Name.Local != "fileobject" {
			continue
		}

		var fo FileObject
		if err := dec.DecodeElement(&fo, &startElem); err != nil {
			return nil, err
		}
		fileObjects = append(fileObjects, fo)
	}
	return fileObjects, nil
}

// ReadSource decodes the <source> element of a DFXML document.
func ReadSource(r io.Reader) (Source, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			return Source{}, err
		}

		if startElem, ok := tok.(xml.StartElement); ok && startElem.Name.Local == "source" {
			var src Source
			err := dec.DecodeElement(&src, &startElem)
			return src, err
		}
	}
}
