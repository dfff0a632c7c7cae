package products

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/orderstack/commerce-services/internal/pagination"
)

// List returns one page of products matching the filter. When the filter
// names a product type, category or status, the matching GSI serves the page;
// otherwise the table is scanned. At most one dimension drives the index
// query (type wins over category, category over status); whatever the index
// cannot answer becomes a filter expression evaluated storage-side.
func (s *Store) List(ctx context.Context, filter Filter, limit int32, nextToken string) (ProductList, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	startKey, err := pagination.DecodeToken(nextToken)
	if err != nil {
		return ProductList{}, err
	}

	var items []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue

	indexName, keyCond := buildListQuery(filter)
	if indexName != "" {
		items, lastKey, err = s.queryIndex(ctx, indexName, keyCond, filter, limit, startKey)
	} else {
		items, lastKey, err = s.scanTable(ctx, filter, limit, startKey)
	}
	if err != nil {
		s.logger.Error("could not list products", zap.Error(err))
		return ProductList{}, err
	}

	products := make([]Product, 0, len(items))
	for _, item := range items {
		var rec productRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			s.dropListItem(ctx, err)
			continue
		}
		if err := s.validate.StructCtx(ctx, rec.Product); err != nil {
			s.dropListItem(ctx, err)
			continue
		}
		products = append(products, rec.Product)
	}

	token, err := pagination.EncodeToken(lastKey)
	if err != nil {
		return ProductList{}, err
	}
	return ProductList{Products: products, NextToken: token}, nil
}

// buildListQuery picks the index for the filter. An empty index name means no
// dimension was supplied and the caller must scan.
func buildListQuery(filter Filter) (indexName string, keyCond expression.KeyConditionBuilder) {
	dimensionKey := func(partition, sortAttr, value string) expression.KeyConditionBuilder {
		return expression.Key(partition).Equal(expression.Value(gsiPartition)).
			And(expression.Key(sortAttr).BeginsWith(value + "#"))
	}

	switch {
	case filter.ProductType != "":
		return "GSI1", dimensionKey("GSI1PK", "GSI1SK", filter.ProductType)
	case filter.ProductCategory != "":
		return "GSI2", dimensionKey("GSI2PK", "GSI2SK", filter.ProductCategory)
	case filter.Status != "":
		return "GSI3", dimensionKey("GSI3PK", "GSI3SK", string(filter.Status))
	}
	return "", expression.KeyConditionBuilder{}
}

// residualFilter builds the filter expression for the conditions the chosen
// index cannot answer. skipDimensions drops type/category/status, which are
// already answered by the key condition on an index query.
func residualFilter(filter Filter, skipDimensions bool) (expression.ConditionBuilder, bool) {
	var cond expression.ConditionBuilder
	present := false

	add := func(c expression.ConditionBuilder) {
		if present {
			cond = cond.And(c)
		} else {
			cond = c
			present = true
		}
	}

	if !skipDimensions {
		if filter.ProductType != "" {
			add(expression.Name("productType").Equal(expression.Value(filter.ProductType)))
		}
		if filter.ProductCategory != "" {
			add(expression.Name("productCategory").Equal(expression.Value(filter.ProductCategory)))
		}
		if filter.Status != "" {
			add(expression.Name("status").Equal(expression.Value(string(filter.Status))))
		}
	}
	if filter.Brand != "" {
		add(expression.Name("brand").Equal(expression.Value(filter.Brand)))
	}
	if filter.Manufacturer != "" {
		add(expression.Name("manufacturer").Equal(expression.Value(filter.Manufacturer)))
	}
	if filter.PriceMin != nil {
		add(expression.Name("price.amount").GreaterThanEqual(expression.Value(*filter.PriceMin)))
	}
	if filter.PriceMax != nil {
		add(expression.Name("price.amount").LessThanEqual(expression.Value(*filter.PriceMax)))
	}
	return cond, present
}

func (s *Store) queryIndex(ctx context.Context, indexName string, keyCond expression.KeyConditionBuilder, filter Filter, limit int32, startKey map[string]types.AttributeValue) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if cond, ok := residualFilter(filter, true); ok {
		builder = builder.WithFilter(cond)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build query expression: %w", err)
	}

	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:                 &s.tableName,
		IndexName:                 &indexName,
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     &limit,
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("query products: %w", err)
	}
	return out.Items, out.LastEvaluatedKey, nil
}

func (s *Store) scanTable(ctx context.Context, filter Filter, limit int32, startKey map[string]types.AttributeValue) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	cond := expression.Name("PK").BeginsWith(productKeyPrefix)
	if residual, ok := residualFilter(filter, false); ok {
		cond = cond.And(residual)
	}
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build scan expression: %w", err)
	}

	out, err := s.client.Scan(ctx, &dyn.ScanInput{
		TableName:                 &s.tableName,
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     &limit,
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scan products: %w", err)
	}
	return out.Items, out.LastEvaluatedKey, nil
}

// dropListItem excludes an unreadable or invalid item from the page. The
// page itself still succeeds.
func (s *Store) dropListItem(ctx context.Context, err error) {
	s.metrics.Increment(ctx, "DroppedListItem")
	s.logger.Warn("dropping invalid product from list", zap.Error(err))
}
