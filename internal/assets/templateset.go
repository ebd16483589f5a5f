package assets

import "fmt"

// Built-in asset names.
const (
	SiteStyleName  = "site"
	PrintStyleName = "print"

	PageTemplateName  = "page"
	CoverTemplateName = "cover"
	IndexTemplateName = "index"
)

// TemplateSet holds the HTML templates needed for one build.
type TemplateSet struct {
	Page  string // document page shell
	Cover string // PDF cover page
	Index string // site index page
}

// LoadTemplateSet loads the page, cover and index templates through loader.
func LoadTemplateSet(loader AssetLoader) (*TemplateSet, error) {
	names := []string{PageTemplateName, CoverTemplateName, IndexTemplateName}
	contents := make([]string, len(names))

	for i, name := range names {
		content, err := loader.LoadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("loading %s template: %w", name, err)
		}
		contents[i] = content
	}

	return &TemplateSet{
		Page:  contents[0],
		Cover: contents[1],
		Index: contents[2],
	}, nil
}
