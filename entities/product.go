package entities

import "github.com/twoojoo/zschema/schema"

// Category classifies a product.
type Category string

// Category values.
const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryClothing    Category = "CLOTHING"
	CategoryBooks       Category = "BOOKS"
	CategoryFood        Category = "FOOD"
	CategoryOther       Category = "OTHER"
)

// Categories lists the accepted categories.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryFood,
	CategoryOther,
}

// CategoryEnum is the field schema of a category value.
var CategoryEnum = schema.Enum(
	string(CategoryElectronics),
	string(CategoryClothing),
	string(CategoryBooks),
	string(CategoryFood),
	string(CategoryOther),
)

// MaxPrice is the highest accepted product price.
const MaxPrice = 999999.99

// ProductSchema validates a catalog product.
var ProductSchema = schema.NewObject("Product",
	schema.Prop("name", schema.String().
		Min(1, "Product name is required").
		Max(100, "Product name must be at most 100 characters")),
	schema.Prop("description", schema.String().
		Max(500, "Description must be at most 500 characters").
		Optional()),
	schema.Prop("price", schema.Number().
		Min(0, "Price must be at least 0").
		Max(MaxPrice, "Price must be at most 999,999.99")),
	schema.Prop("category", CategoryEnum.Default(string(CategoryOther))),
	schema.Prop("inStock", schema.Bool().Default(true)),
)

// CreateProductSchema validates a new product owned by a user.
var CreateProductSchema = ProductSchema.
	Extend(schema.Prop("userId", schema.String().Optional())).
	WithTitle("CreateProduct")

// UpdateProductSchema validates a product patch; every field is optional.
var UpdateProductSchema = ProductSchema.Partial().WithTitle("UpdateProduct")

// ProductIDSchema validates a product ID parameter.
var ProductIDSchema = schema.NewObject("ProductID",
	schema.Prop("id", schema.String().Min(1, "Product ID is required")),
)

// ProductListSchema validates product list queries.
var ProductListSchema = schema.NewObject("ProductList",
	schema.Prop("page", pageField),
	schema.Prop("limit", limitField),
	schema.Prop("inStock", schema.Bool().Optional()),
	schema.Prop("category", CategoryEnum.Optional()),
	schema.Prop("search", schema.String().Optional()),
	schema.Prop("minPrice", schema.Number().Min(0).Optional()),
	schema.Prop("maxPrice", schema.Number().Min(0).Optional()),
)

// ProductFilterSchema validates product filter options.
var ProductFilterSchema = schema.NewObject("ProductFilter",
	schema.Prop("inStock", schema.Bool().Optional()),
	schema.Prop("category", CategoryEnum.Optional()),
	schema.Prop("minPrice", schema.Number().Min(0).Optional()),
	schema.Prop("maxPrice", schema.Number().Min(0).Optional()),
)

// Product is a validated catalog product.
type Product struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Category    Category `json:"category"`
	InStock     bool     `json:"inStock"`
}

// CreateProduct is a validated new product.
type CreateProduct struct {
	Product
	UserID string `json:"userId,omitempty"`
}

// UpdateProduct carries only the fields present in the request.
type UpdateProduct struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Category    *Category `json:"category,omitempty"`
	InStock     *bool     `json:"inStock,omitempty"`
}

// ProductID is a decoded product ID parameter.
type ProductID struct {
	ID string `json:"id"`
}

// ProductList is a decoded product list query.
type ProductList struct {
	Pagination
	InStock  *bool     `json:"inStock,omitempty"`
	Category *Category `json:"category,omitempty"`
	Search   string    `json:"search,omitempty"`
	MinPrice *float64  `json:"minPrice,omitempty"`
	MaxPrice *float64  `json:"maxPrice,omitempty"`
}

// ProductFilter is a decoded set of product filters.
type ProductFilter struct {
	InStock  *bool     `json:"inStock,omitempty"`
	Category *Category `json:"category,omitempty"`
	MinPrice *float64  `json:"minPrice,omitempty"`
	MaxPrice *float64  `json:"maxPrice,omitempty"`
}
