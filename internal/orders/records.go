package orders

import (
	"time"
)

// orderRecord is the persisted shape of an Order. The customer snapshot is
// flattened into top-level attributes; every applicable GSI key pair must be
// present or the item silently disappears from that access pattern.
type orderRecord struct {
	PK                     string  `dynamodbav:"PK"`
	SK                     string  `dynamodbav:"SK"`
	ID                     string  `dynamodbav:"id"`
	CustomerID             string  `dynamodbav:"customerId"`
	CustomerName           string  `dynamodbav:"customerName"`
	CustomerEmail          string  `dynamodbav:"customerEmail"`
	CustomerAccountManager string  `dynamodbav:"customerAccountManager"`
	CreatedDateTime        string  `dynamodbav:"createdDateTime"`
	UpdatedDateTime        string  `dynamodbav:"updatedDateTime"`
	CreatedBy              string  `dynamodbav:"createdBy"`
	Status                 string  `dynamodbav:"status"`
	TotalAmount            float64 `dynamodbav:"totalAmount"`
	BranchID               string  `dynamodbav:"branchId"`
	Comments               string  `dynamodbav:"comments"`
	GSI1PK                 string  `dynamodbav:"GSI1_PK"`
	GSI1SK                 string  `dynamodbav:"GSI1_SK"`
	GSI2PK                 string  `dynamodbav:"GSI2_PK"`
	GSI2SK                 string  `dynamodbav:"GSI2_SK"`
	GSI3PK                 string  `dynamodbav:"GSI3_PK"`
	GSI3SK                 string  `dynamodbav:"GSI3_SK"`
	GSI4PK                 string  `dynamodbav:"GSI4_PK"`
	GSI4SK                 string  `dynamodbav:"GSI4_SK"`
	GSI5PK                 string  `dynamodbav:"GSI5_PK"`
	GSI5SK                 string  `dynamodbav:"GSI5_SK"`
}

type orderLineRecord struct {
	PK              string  `dynamodbav:"PK"`
	SK              string  `dynamodbav:"SK"`
	ID              string  `dynamodbav:"id"`
	OrderID         string  `dynamodbav:"orderId"`
	ProductID       string  `dynamodbav:"productId"`
	ProductName     string  `dynamodbav:"productName"`
	Quantity        int     `dynamodbav:"quantity"`
	Price           float64 `dynamodbav:"price"`
	Total           float64 `dynamodbav:"total"`
	CreatedDateTime string  `dynamodbav:"createdDateTime"`
	UpdatedDateTime string  `dynamodbav:"updatedDateTime"`
	GSI1PK          string  `dynamodbav:"GSI1_PK"`
	GSI1SK          string  `dynamodbav:"GSI1_SK"`
	GSI2PK          string  `dynamodbav:"GSI2_PK"`
	GSI2SK          string  `dynamodbav:"GSI2_SK"`
	GSI3PK          string  `dynamodbav:"GSI3_PK"`
	GSI3SK          string  `dynamodbav:"GSI3_SK"`
}

type customerRecord struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	ID              string `dynamodbav:"id"`
	Name            string `dynamodbav:"name"`
	Email           string `dynamodbav:"email"`
	AccountManager  string `dynamodbav:"accountManager"`
	CreatedDateTime string `dynamodbav:"createdDateTime"`
	UpdatedDateTime string `dynamodbav:"updatedDateTime"`
	GSI1PK          string `dynamodbav:"GSI1_PK"`
	GSI1SK          string `dynamodbav:"GSI1_SK"`
	GSI2PK          string `dynamodbav:"GSI2_PK"`
	GSI2SK          string `dynamodbav:"GSI2_SK"`
	GSI3PK          string `dynamodbav:"GSI3_PK"`
	GSI3SK          string `dynamodbav:"GSI3_SK"`
}

func toOrderRecord(o Order) orderRecord {
	return orderRecord{
		PK:                     orderPartition,
		SK:                     o.ID,
		ID:                     o.ID,
		CustomerID:             o.Customer.ID,
		CustomerName:           o.Customer.Name,
		CustomerEmail:          o.Customer.Email,
		CustomerAccountManager: o.Customer.AccountManager,
		CreatedDateTime:        o.CreatedDateTime.UTC().Format(time.RFC3339),
		UpdatedDateTime:        o.UpdatedDateTime.UTC().Format(time.RFC3339),
		CreatedBy:              o.CreatedBy,
		Status:                 string(o.Status),
		TotalAmount:            o.TotalAmount,
		BranchID:               o.BranchID,
		Comments:               o.Comments,
		GSI1PK:                 gsiCustomerID,
		GSI1SK:                 o.Customer.ID,
		GSI2PK:                 gsiAccountManager,
		GSI2SK:                 o.Customer.AccountManager,
		GSI3PK:                 gsiCustomerEmail,
		GSI3SK:                 o.Customer.Email,
		GSI4PK:                 gsiBranch,
		GSI4SK:                 o.BranchID,
		GSI5PK:                 gsiCreatedBy,
		GSI5SK:                 o.CreatedBy,
	}
}

// fromOrderRecord reconstructs the order without its lines; callers attach
// lines separately and must re-validate the result.
func fromOrderRecord(rec orderRecord) Order {
	return Order{
		ID: rec.ID,
		Customer: Customer{
			ID:             rec.CustomerID,
			Name:           rec.CustomerName,
			Email:          rec.CustomerEmail,
			AccountManager: rec.CustomerAccountManager,
		},
		CreatedDateTime: parseRecordTime(rec.CreatedDateTime),
		UpdatedDateTime: parseRecordTime(rec.UpdatedDateTime),
		CreatedBy:       rec.CreatedBy,
		Status:          OrderStatus(rec.Status),
		TotalAmount:     rec.TotalAmount,
		OrderLines:      []OrderLine{},
		BranchID:        rec.BranchID,
		Comments:        rec.Comments,
	}
}

func toOrderLineRecord(line OrderLine) orderLineRecord {
	return orderLineRecord{
		PK:              orderLinePartition,
		SK:              orderLineSortKey(line.OrderID, line.ID),
		ID:              line.ID,
		OrderID:         line.OrderID,
		ProductID:       line.ProductID,
		ProductName:     line.ProductName,
		Quantity:        line.Quantity,
		Price:           line.Price,
		Total:           line.Total,
		CreatedDateTime: line.CreatedDateTime.UTC().Format(time.RFC3339),
		UpdatedDateTime: line.UpdatedDateTime.UTC().Format(time.RFC3339),
		GSI1PK:          gsiProductID,
		GSI1SK:          line.ProductID,
		GSI2PK:          gsiQuantity,
		GSI2SK:          formatQuantity(line.Quantity),
		GSI3PK:          gsiPrice,
		GSI3SK:          formatPrice(line.Price),
	}
}

func fromOrderLineRecord(rec orderLineRecord) OrderLine {
	return OrderLine{
		ID:              rec.ID,
		OrderID:         rec.OrderID,
		ProductID:       rec.ProductID,
		ProductName:     rec.ProductName,
		Quantity:        rec.Quantity,
		Price:           rec.Price,
		Total:           rec.Total,
		CreatedDateTime: parseRecordTime(rec.CreatedDateTime),
		UpdatedDateTime: parseRecordTime(rec.UpdatedDateTime),
	}
}

func toCustomerRecord(c Customer) customerRecord {
	return customerRecord{
		PK:              customerPartition,
		SK:              c.ID,
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		AccountManager:  c.AccountManager,
		CreatedDateTime: c.CreatedDateTime.UTC().Format(time.RFC3339),
		UpdatedDateTime: c.UpdatedDateTime.UTC().Format(time.RFC3339),
		GSI1PK:          gsiCustomerName,
		GSI1SK:          c.Name,
		GSI2PK:          gsiCustomerEmail,
		GSI2SK:          c.Email,
		GSI3PK:          gsiManager,
		GSI3SK:          c.AccountManager,
	}
}

func fromCustomerRecord(rec customerRecord) Customer {
	return Customer{
		ID:              rec.ID,
		Name:            rec.Name,
		Email:           rec.Email,
		AccountManager:  rec.AccountManager,
		CreatedDateTime: parseRecordTime(rec.CreatedDateTime),
		UpdatedDateTime: parseRecordTime(rec.UpdatedDateTime),
	}
}

func parseRecordTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
