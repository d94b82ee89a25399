package mine

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/codegram/dataset"
)

// pomProject is the part of a Maven pom.xml that describes provenance.
type pomProject struct {
	XMLName  xml.Name     `xml:"project"`
	Licenses []pomLicense `xml:"licenses>license"`
	SCM      *pomSCM      `xml:"scm"`
}

type pomLicense struct {
	Name string `xml:"name"`
	URL  string `xml:"url"`
}

type pomSCM struct {
	URL        string `xml:"url"`
	Connection string `xml:"connection"`
}

// readPOM fills license and URL gaps in repo from dir/pom.xml, if present.
func readPOM(dir string, repo *dataset.Repo) {
	data, err := os.ReadFile(filepath.Join(dir, "pom.xml"))
	if err != nil {
		return
	}
	var p pomProject
	if err := xml.Unmarshal(data, &p); err != nil {
		log.Debugf("%s/pom.xml: %v", dir, err)
		return
	}
	if repo.License == "" && len(p.Licenses) > 0 {
		repo.License = strings.TrimSpace(p.Licenses[0].Name)
	}
	if repo.URL == "" && p.SCM != nil {
		url := strings.TrimSpace(p.SCM.URL)
		if url == "" {
			url = strings.TrimPrefix(strings.TrimSpace(p.SCM.Connection), "scm:git:")
		}
		repo.URL = url
	}
}
