package model

// Product is a catalog entry a shopper can add to the cart.
type Product struct {
	Name        string  `yaml:"name" json:"name"`
	Price       float64 `yaml:"price" json:"price"`
	Category    string  `yaml:"category" json:"category"`
	Description string  `yaml:"description" json:"description"`
}
