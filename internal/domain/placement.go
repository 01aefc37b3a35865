package domain

// Placement is an advisory hint for where an installed section is meant to
// live. It is used for user messaging and for picking a default template
// key; it is never enforced against the remote theme.
type Placement string

const (
	PlacementHome       Placement = "home"
	PlacementProduct    Placement = "product"
	PlacementCollection Placement = "collection"
	PlacementBlog       Placement = "blog"
	PlacementAll        Placement = "all"
)

var Placements = []Placement{
	PlacementHome,
	PlacementProduct,
	PlacementCollection,
	PlacementBlog,
	PlacementAll,
}

func (p Placement) String() string {
	return string(p)
}

func (p Placement) Valid() bool {
	for _, known := range Placements {
		if p == known {
			return true
		}
	}
	return false
}

// TemplateKey returns the JSON template asset conventionally backing this
// placement. "all" sections default to the homepage template.
func (p Placement) TemplateKey() string {
	switch p {
	case PlacementProduct:
		return "templates/product.json"
	case PlacementCollection:
		return "templates/collection.json"
	case PlacementBlog:
		return "templates/blog.json"
	default:
		return "templates/index.json"
	}
}
