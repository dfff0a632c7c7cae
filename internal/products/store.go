package products

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orderstack/commerce-services/internal/aws"
	"github.com/orderstack/commerce-services/internal/errs"
)

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 20

// Store encapsulates product operations against the product table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	logger    *zap.Logger
	metrics   *aws.Metrics
	validate  *validatorv10.Validate
	nowFunc   func() time.Time
	newID     func() string
}

// NewStore creates a new product Store.
func NewStore(client aws.DynamoDBAPI, tableName string, logger *zap.Logger, metrics *aws.Metrics) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
		metrics:   metrics,
		validate:  validatorv10.New(),
		nowFunc:   time.Now,
		newID:     uuid.NewString,
	}
}

// Create validates the request, assigns identity, timestamps and media ids,
// and persists the product with a single put.
func (s *Store) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return Product{}, errs.NewValidation("invalid product: %v", err)
	}

	now := s.nowFunc().UTC().Format(time.RFC3339)
	status := req.Status
	if status == "" {
		status = StatusActive
	}

	product := Product{
		ID:               s.newID(),
		Name:             req.Name,
		Description:      req.Description,
		ProductNumber:    req.ProductNumber,
		ProductType:      req.ProductType,
		ProductCategory:  req.ProductCategory,
		Brand:            req.Brand,
		Manufacturer:     req.Manufacturer,
		SKU:              req.SKU,
		GTIN:             req.GTIN,
		Price:            req.Price,
		Dimensions:       req.Dimensions,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
		Media:            s.assignMediaIDs(req.Media),
		RelatedProducts:  req.RelatedProducts,
		CustomAttributes: req.CustomAttributes,
	}

	item, err := attributevalue.MarshalMap(toProductRecord(product))
	if err != nil {
		return Product{}, fmt.Errorf("marshal product: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	}); err != nil {
		s.logger.Error("could not create product", zap.String("productId", product.ID), zap.Error(err))
		return Product{}, fmt.Errorf("put item: %w", err)
	}

	s.metrics.Increment(ctx, "ProductCreated")
	s.logger.Info("created product", zap.String("productId", product.ID))
	return product, nil
}

// GetByID fetches a product by id. Returns (nil, nil) when the product does
// not exist; absence is not an error at this layer.
func (s *Store) GetByID(ctx context.Context, id string) (*Product, error) {
	pk, sk := ProductKey(id)
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		s.logger.Error("could not retrieve product", zap.String("productId", id), zap.Error(err))
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var rec productRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}

	product := rec.Product
	if err := s.validate.StructCtx(ctx, product); err != nil {
		s.metrics.Increment(ctx, "InvalidProduct")
		s.logger.Error("stored product is invalid", zap.String("productId", id), zap.Error(err))
		return nil, errs.NewValidation("product is invalid")
	}
	return &product, nil
}

// Update writes only the supplied fields. The GSI sort keys affected by a
// changed type, category or status are rebuilt from the product's original
// createdAt so index ordering keeps reflecting creation time.
func (s *Store) Update(ctx context.Context, id string, req UpdateProductRequest) (Product, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return Product{}, errs.NewValidation("invalid product update: %v", err)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if current == nil {
		return Product{}, errs.NewNotFound("product with id %q not found", id)
	}

	now := s.nowFunc().UTC().Format(time.RFC3339)
	update := expression.Set(expression.Name("updatedAt"), expression.Value(now))
	applied := false

	setString := func(name string, v *string) {
		if v != nil {
			update = update.Set(expression.Name(name), expression.Value(*v))
			applied = true
		}
	}
	setString("name", req.Name)
	setString("description", req.Description)
	setString("productNumber", req.ProductNumber)
	setString("productType", req.ProductType)
	setString("productCategory", req.ProductCategory)
	setString("brand", req.Brand)
	setString("manufacturer", req.Manufacturer)
	setString("sku", req.SKU)
	setString("gtin", req.GTIN)

	if req.Price != nil {
		update = update.Set(expression.Name("price"), expression.Value(req.Price))
		applied = true
	}
	if req.Dimensions != nil {
		update = update.Set(expression.Name("dimensions"), expression.Value(req.Dimensions))
		applied = true
	}
	if req.Status != nil {
		update = update.Set(expression.Name("status"), expression.Value(string(*req.Status)))
		update = update.Set(expression.Name("GSI3SK"), expression.Value(gsiSortKey(string(*req.Status), current.CreatedAt)))
		applied = true
	}
	if req.Media != nil {
		update = update.Set(expression.Name("media"), expression.Value(s.assignMediaIDs(req.Media)))
		applied = true
	}
	if req.RelatedProducts != nil {
		update = update.Set(expression.Name("relatedProducts"), expression.Value(req.RelatedProducts))
		applied = true
	}
	if req.CustomAttributes != nil {
		update = update.Set(expression.Name("customAttributes"), expression.Value(req.CustomAttributes))
		applied = true
	}
	if req.ProductType != nil {
		update = update.Set(expression.Name("GSI1SK"), expression.Value(gsiSortKey(*req.ProductType, current.CreatedAt)))
	}
	if req.ProductCategory != nil {
		update = update.Set(expression.Name("GSI2SK"), expression.Value(gsiSortKey(*req.ProductCategory, current.CreatedAt)))
	}

	if !applied {
		return Product{}, errs.NewValidation("at least one field must be provided")
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return Product{}, fmt.Errorf("build update expression: %w", err)
	}

	pk, sk := ProductKey(id)
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		s.logger.Error("could not update product", zap.String("productId", id), zap.Error(err))
		return Product{}, fmt.Errorf("update item: %w", err)
	}

	var rec productRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return Product{}, fmt.Errorf("unmarshal updated product: %w", err)
	}

	s.logger.Info("updated product", zap.String("productId", id))
	return rec.Product, nil
}

// Delete removes a product. Returns false (without error) when nothing was
// there to delete.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	pk, sk := ProductKey(id)
	out, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		s.logger.Error("could not delete product", zap.String("productId", id), zap.Error(err))
		return false, fmt.Errorf("delete item: %w", err)
	}

	deleted := len(out.Attributes) > 0
	if deleted {
		s.metrics.Increment(ctx, "ProductDeleted")
		s.logger.Info("deleted product", zap.String("productId", id))
	}
	return deleted, nil
}

func (s *Store) assignMediaIDs(inputs []MediaInput) []Media {
	if inputs == nil {
		return nil
	}
	media := make([]Media, 0, len(inputs))
	for _, in := range inputs {
		media = append(media, Media{
			ID:          s.newID(),
			Type:        in.Type,
			URL:         in.URL,
			Title:       in.Title,
			Description: in.Description,
			IsPrimary:   in.IsPrimary,
		})
	}
	return media
}
