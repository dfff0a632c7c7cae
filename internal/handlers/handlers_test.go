package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// emptyDynamo answers every read with an empty result and accepts every
// write, enough to drive the HTTP contract tests.
type emptyDynamo struct{}

func (emptyDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	return &dyn.PutItemOutput{}, nil
}

func (emptyDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	return &dyn.GetItemOutput{}, nil
}

func (emptyDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return &dyn.UpdateItemOutput{}, nil
}

func (emptyDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	return &dyn.DeleteItemOutput{}, nil
}

func (emptyDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	return &dyn.QueryOutput{}, nil
}

func (emptyDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return &dyn.ScanOutput{}, nil
}

func (emptyDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	return &dyn.TransactWriteItemsOutput{}, nil
}

func testRouter(register func(*gin.Engine, HandlerConfig)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r, HandlerConfig{
		DynamoDBClient: emptyDynamo{},
		TableName:      "commerce",
		Logger:         zap.NewNop(),
		Production:     true,
	})
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOrders_GetMissingIs404(t *testing.T) {
	r := testRouter(RegisterOrdersRoutes)
	w := doRequest(r, http.MethodGet, "/orders/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "message")
	// production mode never leaks a stack
	assert.NotContains(t, body, "stack")
}

func TestOrders_MalformedIDIs400(t *testing.T) {
	r := testRouter(RegisterOrdersRoutes)
	w := doRequest(r, http.MethodGet, "/orders/not%20an%20id", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrders_InvalidBodyIs400(t *testing.T) {
	r := testRouter(RegisterOrdersRoutes)
	w := doRequest(r, http.MethodPost, "/orders", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrders_CreateAgainstUnknownCustomerIs404(t *testing.T) {
	r := testRouter(RegisterOrdersRoutes)
	w := doRequest(r, http.MethodPost, "/orders", `{"customerId":"ghost","branchId":"b1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrders_ListRejectsBadLimit(t *testing.T) {
	r := testRouter(RegisterOrdersRoutes)
	w := doRequest(r, http.MethodGet, "/orders?limit=-10", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrders_ListEmptyIsOK(t *testing.T) {
	r := testRouter(RegisterOrdersRoutes)
	w := doRequest(r, http.MethodGet, "/orders", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProducts_GetMissingIs404(t *testing.T) {
	r := testRouter(RegisterProductsRoutes)
	w := doRequest(r, http.MethodGet, "/products/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProducts_DeleteMissingIs404(t *testing.T) {
	r := testRouter(RegisterProductsRoutes)
	w := doRequest(r, http.MethodDelete, "/products/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProducts_CreateIs201(t *testing.T) {
	r := testRouter(RegisterProductsRoutes)
	w := doRequest(r, http.MethodPost, "/products", `{"name":"Trail Boot"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "ACTIVE", body["status"])
}

func TestProducts_CreateWithoutNameIs400(t *testing.T) {
	r := testRouter(RegisterProductsRoutes)
	w := doRequest(r, http.MethodPost, "/products", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_ListRejectsBadPriceFilter(t *testing.T) {
	r := testRouter(RegisterProductsRoutes)
	w := doRequest(r, http.MethodGet, "/products?priceMin=cheap", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_UpdateMissingIs404(t *testing.T) {
	r := testRouter(RegisterProductsRoutes)
	w := doRequest(r, http.MethodPut, "/products/nope", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
