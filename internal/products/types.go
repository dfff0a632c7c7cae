package products

// ProductStatus enumerates the product lifecycle states.
type ProductStatus string

const (
	StatusActive       ProductStatus = "ACTIVE"
	StatusInactive     ProductStatus = "INACTIVE"
	StatusDiscontinued ProductStatus = "DISCONTINUED"
)

// Money is a price with an ISO 4217 currency code.
type Money struct {
	Amount   float64 `json:"amount" dynamodbav:"amount" validate:"gt=0"`
	Currency string  `json:"currency" dynamodbav:"currency" validate:"len=3"`
}

// Dimensions describes the physical shape of a product.
type Dimensions struct {
	Height        *float64 `json:"height,omitempty" dynamodbav:"height,omitempty" validate:"omitempty,gt=0"`
	Width         *float64 `json:"width,omitempty" dynamodbav:"width,omitempty" validate:"omitempty,gt=0"`
	Depth         *float64 `json:"depth,omitempty" dynamodbav:"depth,omitempty" validate:"omitempty,gt=0"`
	Weight        *float64 `json:"weight,omitempty" dynamodbav:"weight,omitempty" validate:"omitempty,gt=0"`
	UnitOfMeasure string   `json:"unitOfMeasure,omitempty" dynamodbav:"unitOfMeasure,omitempty"`
}

// Media is an attachment (image, video, document). Each attachment gets its
// own id when the product is created.
type Media struct {
	ID          string `json:"id" dynamodbav:"id"`
	Type        string `json:"type" dynamodbav:"type" validate:"required"`
	URL         string `json:"url" dynamodbav:"url" validate:"required,url"`
	Title       string `json:"title,omitempty" dynamodbav:"title,omitempty"`
	Description string `json:"description,omitempty" dynamodbav:"description,omitempty"`
	IsPrimary   bool   `json:"isPrimary,omitempty" dynamodbav:"isPrimary,omitempty"`
}

// Product follows the common-data-model product shape. Price and dimensions
// stay nested in storage so filter expressions can address price.amount.
type Product struct {
	ID               string                 `json:"id" dynamodbav:"id" validate:"required"`
	Name             string                 `json:"name" dynamodbav:"name" validate:"required,max=255"`
	Description      string                 `json:"description,omitempty" dynamodbav:"description,omitempty" validate:"max=2000"`
	ProductNumber    string                 `json:"productNumber,omitempty" dynamodbav:"productNumber,omitempty" validate:"max=100"`
	ProductType      string                 `json:"productType,omitempty" dynamodbav:"productType,omitempty" validate:"max=100"`
	ProductCategory  string                 `json:"productCategory,omitempty" dynamodbav:"productCategory,omitempty" validate:"max=100"`
	Brand            string                 `json:"brand,omitempty" dynamodbav:"brand,omitempty" validate:"max=100"`
	Manufacturer     string                 `json:"manufacturer,omitempty" dynamodbav:"manufacturer,omitempty" validate:"max=100"`
	SKU              string                 `json:"sku,omitempty" dynamodbav:"sku,omitempty" validate:"max=100"`
	GTIN             string                 `json:"gtin,omitempty" dynamodbav:"gtin,omitempty" validate:"max=100"`
	Price            *Money                 `json:"price,omitempty" dynamodbav:"price,omitempty"`
	Dimensions       *Dimensions            `json:"dimensions,omitempty" dynamodbav:"dimensions,omitempty"`
	Status           ProductStatus          `json:"status" dynamodbav:"status" validate:"required,oneof=ACTIVE INACTIVE DISCONTINUED"`
	CreatedAt        string                 `json:"createdAt" dynamodbav:"createdAt" validate:"required"`
	UpdatedAt        string                 `json:"updatedAt" dynamodbav:"updatedAt" validate:"required"`
	Media            []Media                `json:"media,omitempty" dynamodbav:"media,omitempty" validate:"dive"`
	RelatedProducts  []string               `json:"relatedProducts,omitempty" dynamodbav:"relatedProducts,omitempty"`
	CustomAttributes map[string]interface{} `json:"customAttributes,omitempty" dynamodbav:"customAttributes,omitempty"`
}

// MediaInput is a media attachment before an id is assigned.
type MediaInput struct {
	Type        string `json:"type" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	IsPrimary   bool   `json:"isPrimary,omitempty"`
}

// CreateProductRequest is the payload for POST /products.
type CreateProductRequest struct {
	Name             string                 `json:"name" validate:"required,max=255"`
	Description      string                 `json:"description,omitempty" validate:"max=2000"`
	ProductNumber    string                 `json:"productNumber,omitempty" validate:"max=100"`
	ProductType      string                 `json:"productType,omitempty" validate:"max=100"`
	ProductCategory  string                 `json:"productCategory,omitempty" validate:"max=100"`
	Brand            string                 `json:"brand,omitempty" validate:"max=100"`
	Manufacturer     string                 `json:"manufacturer,omitempty" validate:"max=100"`
	SKU              string                 `json:"sku,omitempty" validate:"max=100"`
	GTIN             string                 `json:"gtin,omitempty" validate:"max=100"`
	Price            *Money                 `json:"price,omitempty"`
	Dimensions       *Dimensions            `json:"dimensions,omitempty"`
	Status           ProductStatus          `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	Media            []MediaInput           `json:"media,omitempty" validate:"dive"`
	RelatedProducts  []string               `json:"relatedProducts,omitempty"`
	CustomAttributes map[string]interface{} `json:"customAttributes,omitempty"`
}

// UpdateProductRequest is the payload for PUT /products/{id}. Only supplied
// fields are written; at least one must be present.
type UpdateProductRequest struct {
	Name             *string                `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description      *string                `json:"description,omitempty" validate:"omitempty,max=2000"`
	ProductNumber    *string                `json:"productNumber,omitempty" validate:"omitempty,max=100"`
	ProductType      *string                `json:"productType,omitempty" validate:"omitempty,max=100"`
	ProductCategory  *string                `json:"productCategory,omitempty" validate:"omitempty,max=100"`
	Brand            *string                `json:"brand,omitempty" validate:"omitempty,max=100"`
	Manufacturer     *string                `json:"manufacturer,omitempty" validate:"omitempty,max=100"`
	SKU              *string                `json:"sku,omitempty" validate:"omitempty,max=100"`
	GTIN             *string                `json:"gtin,omitempty" validate:"omitempty,max=100"`
	Price            *Money                 `json:"price,omitempty"`
	Dimensions       *Dimensions            `json:"dimensions,omitempty"`
	Status           *ProductStatus         `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	Media            []MediaInput           `json:"media,omitempty" validate:"dive"`
	RelatedProducts  []string               `json:"relatedProducts,omitempty"`
	CustomAttributes map[string]interface{} `json:"customAttributes,omitempty"`
}

// Filter narrows a product list request. Exactly one of ProductType,
// ProductCategory or Status can drive an index query; the rest degrade to
// storage-side filter expressions.
type Filter struct {
	ProductType     string
	ProductCategory string
	Status          ProductStatus
	Brand           string
	Manufacturer    string
	PriceMin        *float64
	PriceMax        *float64
}

// ProductList is one page of products plus an opaque continuation token.
type ProductList struct {
	Products  []Product `json:"products"`
	NextToken string    `json:"nextToken,omitempty"`
}
