package dfxml

import (
	"encoding/xml"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"github.com/ostafen/carver/pkg/sysinfo"
)

const XmlOutputVersion = "1.0"

var DefaultMetadata = Metadata{
	Xmlns:    "http://www.forensicswiki.org/wiki/Category:Digital_Forensics_XML",
	XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
	XmlnsDC:  "http://purl.org/dc/elements/1.1/",
	Type:     "Carve Report",
}

type DFXMLHeader struct {
	XMLName   xml.Name `xml:"dfxml"`                           // Specifies the XML element name as "dfxml".
	XmlOutput string   `xml:"xmloutputversion,attr,omitempty"` // The version of the DFXML XML schema.
	Metadata  Metadata `xml:"metadata"`                        // Contains metadata about the DFXML document.
	Creator   Creator  `xml:"creator"`                         // Describes the software that created the DFXML.
	Source    Source   `xml:"source"`                          // Describes the carved source.
}

type Metadata struct {
	Xmlns    string `xml:"xmlns,attr"`
	XmlnsXsi string `xml:"xmlns:xsi,attr"`
	XmlnsDC  string `xml:"xmlns:dc,attr"`
	Type     string `xml:"dc:type"`
}

type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS      string `xml:"os_sysname"` // Operating system name (e.g., "linux", "windows").
	Release string `xml:"os_release"` // Operating system release.
	Version string `xml:"os_version"` // Operating system kernel version.
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	UID     int    `xml:"uid"`
	Start   string `xml:"start_time"`
}

// Source describes the byte stream the files were carved from. A split
// image lists one filename per segment.
type Source struct {
	ImageFilenames []string `xml:"image_filename"`
	ImageSize      uint64   `xml:"image_size"`
}

type FileObject struct {
	XMLName     xml.Name     `xml:"fileobject"`
	Filename    string       `xml:"filename"`
	FileSize    uint64       `xml:"filesize"`
	ByteRuns    ByteRuns     `xml:"byte_runs"`
	HashDigests []HashDigest `xml:"hashdigest,omitempty"`
}

type ByteRuns struct {
	Runs []ByteRun `xml:"byte_run"`
}

type ByteRun struct {
	Offset    uint64 `xml:"offset,attr"`     // Logical offset within the file object.
	ImgOffset uint64 `xml:"img_offset,attr"` // Physical offset within the source image.
	Length    uint64 `xml:"len,attr"`
}

// HashDigest is a content hash of a file object, e.g.
// <hashdigest type="md5">...</hashdigest>.
type HashDigest struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Digest returns the value of the digest of the given type, if present.
func (o *FileObject) Digest(typ string) (string, bool) {
	for _, d := range o.HashDigests {
		if d.Type == typ {
			return d.Value, true
		}
	}
	return "", false
}

func GetExecEnv() ExecEnv {
	sinfo, err := sysinfo.Stat()
	if err != nil {
		sinfo = &sysinfo.SysUnknown
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	uid := 0
	currentUser, err := user.Current()
	if err == nil {
		if uidInt, parseErr := strconv.Atoi(currentUser.Uid); parseErr == nil {
			uid = uidInt
		}
	}

	return ExecEnv{
		OS:      sinfo.Name,
		Release: sinfo.Release,
		Version: sinfo.Version,
		Host:    host,
		Arch:    runtime.GOARCH,
		UID:     uid,
		// DFXML expects UTC, YYYY-MM-DDTHH:MM:SSZ
		Start: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}
}
