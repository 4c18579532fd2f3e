package licenses

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/vfs"
)

// ManifestName is the package manifest read from every install directory.
const ManifestName = "package.json"

// Unknown is the license reported for manifests without a usable license field.
const Unknown = "UNKNOWN"

// Manifest is the subset of package.json used for attribution.
//
// Fields of an unexpected JSON type decode as empty rather than failing the
// whole manifest.
type Manifest struct {
	Name       Text       `json:"name"`
	License    License    `json:"license"`
	Repository Repository `json:"repository"`
	Homepage   Text       `json:"homepage"`
	Author     Person     `json:"author"`
}

// Info is the license view of a manifest.
type Info struct {
	License    string
	URL        string
	VendorName string
	VendorURL  string
}

// Info derives license information: the license defaults to UNKNOWN, the URL
// prefers the repository over the homepage, and the vendor URL prefers the
// homepage over the author URL.
func (m *Manifest) Info() Info {
	info := Info{
		License:    string(m.License),
		URL:        m.Repository.URL,
		VendorName: m.Author.Name,
		VendorURL:  string(m.Homepage),
	}
	if info.License == "" {
		info.License = Unknown
	}
	if info.URL == "" {
		info.URL = string(m.Homepage)
	}
	if info.VendorURL == "" {
		info.VendorURL = m.Author.URL
	}
	return info
}

// ParseManifest decodes package.json content. Well-formed JSON that is not an
// object yields an empty manifest; only syntax errors fail.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// readManifest loads dir/package.json. A missing or malformed manifest yields
// a nil manifest and the skip reason; other read failures are returned.
func readManifest(fsys vfs.FS, dir string) (*Manifest, observability.SkipReason, error) {
	raw, err := fsys.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		if vfs.IsNotExist(err) {
			return nil, observability.SkipNoManifest, nil
		}
		return nil, "", err
	}
	m, err := ParseManifest([]byte(raw))
	if err != nil {
		return nil, observability.SkipBadManifest, nil
	}
	return m, "", nil
}

// License is the declared license: a string, or the "type" of an object.
type License string

func (l *License) UnmarshalJSON(data []byte) error {
	var s string
	if json.Unmarshal(data, &s) == nil {
		*l = License(s)
		return nil
	}
	var obj struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(data, &obj) == nil {
		*l = License(obj.Type)
		return nil
	}
	*l = ""
	return nil
}

// Repository is the source repository, written as a URL string or an object.
type Repository struct {
	URL string
}

func (r *Repository) UnmarshalJSON(data []byte) error {
	var s string
	if json.Unmarshal(data, &s) == nil {
		r.URL = s
		return nil
	}
	var obj struct {
		URL Text `json:"url"`
	}
	if json.Unmarshal(data, &obj) == nil {
		r.URL = string(obj.URL)
	}
	return nil
}

// Person is a package author, written as an object or as
// "Name <email> (url)".
type Person struct {
	Name string
	URL  string
}

var personPattern = regexp.MustCompile(`^([^<(]*?)\s*(?:<[^>]*>)?\s*(?:\(([^)]*)\))?\s*$`)

func (p *Person) UnmarshalJSON(data []byte) error {
	var s string
	if json.Unmarshal(data, &s) == nil {
		if m := personPattern.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
			p.Name, p.URL = m[1], m[2]
		} else {
			p.Name = strings.TrimSpace(s)
		}
		return nil
	}
	var obj struct {
		Name Text `json:"name"`
		URL  Text `json:"url"`
	}
	if json.Unmarshal(data, &obj) == nil {
		p.Name, p.URL = string(obj.Name), string(obj.URL)
	}
	return nil
}

// Text decodes JSON strings and ignores any other type.
type Text string

func (s *Text) UnmarshalJSON(data []byte) error {
	var v string
	if json.Unmarshal(data, &v) == nil {
		*s = Text(v)
	}
	return nil
}
