package products

import "fmt"

const (
	productKeyPrefix = "PRODUCT#"
	gsiPartition     = "PRODUCT"
	unknownDimension = "UNKNOWN"
)

// productRecord is the persisted product shape: the product attributes plus
// the primary key pair and the three GSI key pairs. The primary key is
// self-referential (PK = SK), so products are point-addressable only; range
// access goes through the GSIs.
type productRecord struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK"`
	GSI1SK string `dynamodbav:"GSI1SK"`
	GSI2PK string `dynamodbav:"GSI2PK"`
	GSI2SK string `dynamodbav:"GSI2SK"`
	GSI3PK string `dynamodbav:"GSI3PK"`
	GSI3SK string `dynamodbav:"GSI3SK"`
	Product
}

// ProductKey builds the self-referential primary key of a product item.
func ProductKey(id string) (pk, sk string) {
	v := productKeyPrefix + id
	return v, v
}

// The GSI sort keys compose the dimension value with the creation timestamp
// so products sharing a dimension value stay ordered by creation time. On
// update the keys are rebuilt from the original createdAt, never the update
// time, so index order always reflects creation time.
func gsiSortKey(dimension, createdAt string) string {
	if dimension == "" {
		dimension = unknownDimension
	}
	return fmt.Sprintf("%s#%s", dimension, createdAt)
}

func toProductRecord(p Product) productRecord {
	pk, sk := ProductKey(p.ID)
	return productRecord{
		PK:      pk,
		SK:      sk,
		GSI1PK:  gsiPartition,
		GSI1SK:  gsiSortKey(p.ProductType, p.CreatedAt),
		GSI2PK:  gsiPartition,
		GSI2SK:  gsiSortKey(p.ProductCategory, p.CreatedAt),
		GSI3PK:  gsiPartition,
		GSI3SK:  gsiSortKey(string(p.Status), p.CreatedAt),
		Product: p,
	}
}
