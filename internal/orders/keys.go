package orders

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Every entity variant shares one table, disambiguated by a constant
// partition tag. All orders (and all customers, and all lines) hash to a
// single partition; this trades horizontal scalability for trivially simple
// "list all" and "get by id" patterns and is a deliberate, known limitation.
const (
	orderPartition     = "ORDER"
	orderLinePartition = "ORDER_LINE"
	customerPartition  = "CUSTOMER"
)

// GSI partition tags. Each index covers one query dimension: the partition
// value is constant, the sort key carries the dimension's field value.
const (
	gsiCustomerID     = "CUSTOMER_ID"
	gsiAccountManager = "CUSTOMER_ACCOUNT_MANAGER"
	gsiCustomerEmail  = "CUSTOMER_EMAIL"
	gsiBranch         = "BRANCH"
	gsiCreatedBy      = "CREATED_BY"
	gsiProductID      = "PRODUCT_ID"
	gsiQuantity       = "QUANTITY"
	gsiPrice          = "PRICE"
	gsiCustomerName   = "CUSTOMER_NAME"
	gsiManager        = "ACCOUNT_MANAGER"
)

// OrderKey builds the primary key of an order item.
func OrderKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: orderPartition},
		"SK": &types.AttributeValueMemberS{Value: id},
	}
}

// OrderLineKey builds the primary key of an order line item. The sort key
// embeds both parent and child id so all lines of one order form a
// contiguous, begins_with-queryable range.
func OrderLineKey(orderID, lineID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: orderLinePartition},
		"SK": &types.AttributeValueMemberS{Value: orderLineSortKey(orderID, lineID)},
	}
}

// CustomerKey builds the primary key of a customer item.
func CustomerKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: customerPartition},
		"SK": &types.AttributeValueMemberS{Value: id},
	}
}

func orderLineSortKey(orderID, lineID string) string {
	return fmt.Sprintf("ORDER_ID#%s#LINE_ID#%s", orderID, lineID)
}

// orderLinePrefix is the sort key prefix shared by all lines of one order.
func orderLinePrefix(orderID string) string {
	return fmt.Sprintf("ORDER_ID#%s", orderID)
}

func formatQuantity(q int) string {
	return strconv.Itoa(q)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
