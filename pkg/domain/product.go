package domain

// Product is a catalog entry. Name, description, audience and benefits are
// translation keys.
type Product struct {
	Code           string   `json:"code" yaml:"code" mapstructure:"code"`
	Series         string   `json:"series" yaml:"series" mapstructure:"series"`
	Image          string   `json:"image" yaml:"image" mapstructure:"image"`
	NameKey        string   `json:"nameKey" yaml:"nameKey" mapstructure:"nameKey"`
	DescriptionKey string   `json:"descriptionKey" yaml:"descriptionKey" mapstructure:"descriptionKey"`
	ForWhomKey     string   `json:"forWhomKey" yaml:"forWhomKey" mapstructure:"forWhomKey"`
	Benefits       []string `json:"benefits" yaml:"benefits" mapstructure:"benefits"`
}

// Catalog maps product codes to products for one brand.
type Catalog struct {
	Brand    Brand              `json:"brand"`
	Products map[string]Product `json:"products" yaml:"products" mapstructure:"products"`
}

// Lookup returns the product registered under code.
func (c *Catalog) Lookup(code string) (Product, bool) {
	if c == nil || c.Products == nil {
		return Product{}, false
	}
	p, ok := c.Products[code]
	return p, ok
}
