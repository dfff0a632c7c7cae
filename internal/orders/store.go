package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/orderstack/commerce-services/internal/aws"
	"github.com/orderstack/commerce-services/internal/errs"
	"github.com/orderstack/commerce-services/internal/pagination"
)

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 10

// Store encapsulates all order-service operations against the single table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	logger    *zap.Logger
	metrics   *aws.Metrics
	validate  *validatorv10.Validate
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string, logger *zap.Logger, metrics *aws.Metrics) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
		metrics:   metrics,
		validate:  NewValidator(),
		nowFunc:   time.Now,
	}
}

// Create resolves the customer snapshot, constructs and validates the order,
// and persists the order plus all of its lines in one transaction.
func (s *Store) Create(ctx context.Context, dto NewOrderDTO, createdBy string) (Order, error) {
	customer, err := s.GetCustomer(ctx, dto.CustomerID)
	if err != nil {
		return Order{}, err
	}

	order := BuildOrder(dto, customer, createdBy, s.nowFunc().UTC())
	if err := s.validateOrder(ctx, order); err != nil {
		return Order{}, err
	}

	items, err := s.orderPutItems(order)
	if err != nil {
		return Order{}, err
	}

	if _, err := s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{TransactItems: items}); err != nil {
		s.logStorageError("could not save order", order.ID, err)
		return Order{}, fmt.Errorf("transact write: %w", err)
	}

	s.metrics.Increment(ctx, "OrderCreated")
	s.logger.Info("created order", zap.String("orderId", order.ID))
	return order, nil
}

// Get fetches an order by id, attaches its lines and re-validates the
// reconstructed aggregate. A missing order is a NotFoundError, never an
// empty success.
func (s *Store) Get(ctx context.Context, id string) (Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       OrderKey(id),
	})
	if err != nil {
		s.logger.Error("could not retrieve order", zap.String("orderId", id), zap.Error(err))
		return Order{}, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return Order{}, errs.NewNotFound("order with id %q not found", id)
	}

	var rec orderRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return Order{}, fmt.Errorf("unmarshal order: %w", err)
	}

	order := fromOrderRecord(rec)
	lines, err := s.getOrderLines(ctx, id)
	if err != nil {
		return Order{}, err
	}
	order.OrderLines = lines

	if err := s.validateOrder(ctx, order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// Update loads the current state, computes the lines dropped by the incoming
// payload and applies the whole change in one transaction: put the order,
// put every surviving line, delete every dropped line. Partial application
// is impossible by construction.
func (s *Store) Update(ctx context.Context, id string, dto UpdatedOrderDTO) (Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}

	customer, err := s.GetCustomer(ctx, dto.CustomerID)
	if err != nil {
		return Order{}, err
	}

	next := BuildUpdatedOrder(current, dto, customer, s.nowFunc().UTC())
	if err := s.validateOrder(ctx, next); err != nil {
		return Order{}, err
	}

	items, err := s.orderPutItems(next)
	if err != nil {
		return Order{}, err
	}
	for _, line := range DroppedLines(current, next) {
		items = append(items, deleteTransactItem(s.tableName, OrderLineKey(line.OrderID, line.ID)))
	}

	if _, err := s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{TransactItems: items}); err != nil {
		s.logStorageError("could not update order", id, err)
		return Order{}, fmt.Errorf("transact write: %w", err)
	}

	s.metrics.Increment(ctx, "OrderUpdated")
	s.logger.Info("updated order", zap.String("orderId", id))
	return next, nil
}

// Delete removes the order and all of its lines in one transaction.
func (s *Store) Delete(ctx context.Context, id string) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{deleteTransactItem(s.tableName, OrderKey(order.ID))}
	for _, line := range order.OrderLines {
		items = append(items, deleteTransactItem(s.tableName, OrderLineKey(line.OrderID, line.ID)))
	}

	if _, err := s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{TransactItems: items}); err != nil {
		s.logStorageError("could not delete order", id, err)
		return fmt.Errorf("transact write: %w", err)
	}

	s.metrics.Increment(ctx, "OrderDeleted")
	s.logger.Info("deleted order", zap.String("orderId", id))
	return nil
}

// List returns one page of orders. When a filter field is present the query
// is routed to the matching GSI, in fixed precedence order; only one filter
// ever drives the index. Items failing validation are dropped and counted,
// never failing the page.
func (s *Store) List(ctx context.Context, params pagination.Params, filter ListFilter) (OrderList, error) {
	input := s.buildListQuery(params, filter)

	out, err := s.client.Query(ctx, input)
	if err != nil {
		s.logger.Error("could not list orders", zap.Error(err))
		return OrderList{}, fmt.Errorf("query orders: %w", err)
	}

	items := make([]Order, 0, len(out.Items))
	for _, item := range out.Items {
		var rec orderRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			s.dropListItem(ctx, err)
			continue
		}
		order := fromOrderRecord(rec)
		if err := s.validate.StructCtx(ctx, order); err != nil {
			s.dropListItem(ctx, err)
			continue
		}
		items = append(items, order)
	}

	var offset string
	if sk, ok := out.LastEvaluatedKey["SK"].(*types.AttributeValueMemberS); ok {
		offset = sk.Value
	}

	return OrderList{Items: items, Offset: offset}, nil
}

// GetCustomer fetches a customer by id and validates the stored record.
func (s *Store) GetCustomer(ctx context.Context, id string) (Customer, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       CustomerKey(id),
	})
	if err != nil {
		s.logger.Error("could not retrieve customer", zap.String("customerId", id), zap.Error(err))
		return Customer{}, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return Customer{}, errs.NewNotFound("customer with id %q not found", id)
	}

	var rec customerRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return Customer{}, fmt.Errorf("unmarshal customer: %w", err)
	}

	customer := fromCustomerRecord(rec)
	if err := s.validate.StructCtx(ctx, customer); err != nil {
		s.metrics.Increment(ctx, "InvalidCustomer")
		s.logger.Error("customer is invalid", zap.String("customerId", id), zap.Error(err))
		return Customer{}, errs.NewValidation("customer is invalid")
	}
	return customer, nil
}

// getOrderLines queries the contiguous line range of one order.
func (s *Store) getOrderLines(ctx context.Context, orderID string) ([]OrderLine, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(orderLinePartition)).
		And(expression.Key("SK").BeginsWith(orderLinePrefix(orderID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build line query: %w", err)
	}

	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:                 &s.tableName,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		s.logger.Error("could not retrieve order lines", zap.String("orderId", orderID), zap.Error(err))
		return nil, fmt.Errorf("query order lines: %w", err)
	}

	lines := make([]OrderLine, 0, len(out.Items))
	for _, item := range out.Items {
		var rec orderLineRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal order line: %w", err)
		}
		lines = append(lines, fromOrderLineRecord(rec))
	}
	return lines, nil
}

// buildListQuery routes a list request to the primary table or one of the
// five GSIs. The offset cursor is the last primary sort key seen; for GSI
// queries the full exclusive start key is reconstructible because GSI
// partitions are constants and the GSI sort key equals the filter value.
func (s *Store) buildListQuery(params pagination.Params, filter ListFilter) *dyn.QueryInput {
	type route struct {
		index   string
		pkName  string
		pkValue string
		skName  string
		skValue string
	}

	var r *route
	switch {
	case filter.CustomerID != "":
		r = &route{"GSI1", "GSI1_PK", gsiCustomerID, "GSI1_SK", filter.CustomerID}
	case filter.AccountManager != "":
		r = &route{"GSI2", "GSI2_PK", gsiAccountManager, "GSI2_SK", filter.AccountManager}
	case filter.CustomerEmail != "":
		r = &route{"GSI3", "GSI3_PK", gsiCustomerEmail, "GSI3_SK", filter.CustomerEmail}
	case filter.BranchID != "":
		r = &route{"GSI4", "GSI4_PK", gsiBranch, "GSI4_SK", filter.BranchID}
	case filter.CreatedBy != "":
		r = &route{"GSI5", "GSI5_PK", gsiCreatedBy, "GSI5_SK", filter.CreatedBy}
	}

	limit := params.Limit
	input := &dyn.QueryInput{
		TableName: &s.tableName,
		Limit:     &limit,
	}

	if r == nil {
		input.KeyConditionExpression = awsString("PK = :pk")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: orderPartition},
		}
		if params.Offset != "" {
			input.ExclusiveStartKey = map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: orderPartition},
				"SK": &types.AttributeValueMemberS{Value: params.Offset},
			}
		}
		return input
	}

	input.IndexName = &r.index
	input.KeyConditionExpression = awsString(fmt.Sprintf("%s = :pk AND %s = :sk", r.pkName, r.skName))
	input.ExpressionAttributeValues = map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: r.pkValue},
		":sk": &types.AttributeValueMemberS{Value: r.skValue},
	}
	if params.Offset != "" {
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			r.pkName: &types.AttributeValueMemberS{Value: r.pkValue},
			r.skName: &types.AttributeValueMemberS{Value: r.skValue},
			"PK":     &types.AttributeValueMemberS{Value: orderPartition},
			"SK":     &types.AttributeValueMemberS{Value: params.Offset},
		}
	}
	return input
}

// orderPutItems marshals the order and all of its lines into transaction puts.
func (s *Store) orderPutItems(order Order) ([]types.TransactWriteItem, error) {
	orderItem, err := attributevalue.MarshalMap(toOrderRecord(order))
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	items := []types.TransactWriteItem{putTransactItem(s.tableName, orderItem)}
	for _, line := range order.OrderLines {
		lineItem, err := attributevalue.MarshalMap(toOrderLineRecord(line))
		if err != nil {
			return nil, fmt.Errorf("marshal order line: %w", err)
		}
		items = append(items, putTransactItem(s.tableName, lineItem))
	}
	return items, nil
}

func (s *Store) validateOrder(ctx context.Context, order Order) error {
	if err := s.validate.StructCtx(ctx, order); err != nil {
		s.metrics.Increment(ctx, "InvalidOrder")
		s.logger.Error("order is invalid", zap.String("orderId", order.ID), zap.Error(err))
		return errs.NewValidation("order is invalid")
	}
	return nil
}

// logStorageError records a failed write with as much SDK context as the
// error carries. A cancelled transaction logs its per-item cancellation
// reasons; any other API error logs its service error code.
func (s *Store) logStorageError(msg, orderID string, err error) {
	fields := []zap.Field{zap.String("orderId", orderID), zap.Error(err)}

	var canceled *types.TransactionCanceledException
	var apiErr smithy.APIError
	switch {
	case errors.As(err, &canceled):
		reasons := make([]string, 0, len(canceled.CancellationReasons))
		for _, r := range canceled.CancellationReasons {
			if r.Code != nil {
				reasons = append(reasons, *r.Code)
			}
		}
		fields = append(fields, zap.Strings("cancellationReasons", reasons))
	case errors.As(err, &apiErr):
		fields = append(fields, zap.String("errorCode", apiErr.ErrorCode()))
	}

	s.logger.Error(msg, fields...)
}

func (s *Store) dropListItem(ctx context.Context, err error) {
	s.metrics.Increment(ctx, "DroppedListItem")
	s.logger.Warn("dropping invalid item from list result", zap.Error(err))
}

func putTransactItem(tableName string, item map[string]types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: &tableName,
			Item:      item,
		},
	}
}

func deleteTransactItem(tableName string, key map[string]types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: &tableName,
			Key:       key,
		},
	}
}

func awsString(s string) *string { return &s }
