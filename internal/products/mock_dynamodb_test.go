package products

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory mock of the product table. It evaluates the
// expression shapes the store actually emits: SET updates, equality,
// begins_with and numeric range clauses.
type mockDynamo struct {
	mu          sync.Mutex
	items       map[string]map[string]types.AttributeValue
	queryInputs []*dyn.QueryInput
	scanInputs  []*dyn.ScanInput
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(item map[string]types.AttributeValue) string {
	return stringValue(item["PK"]) + "|" + stringValue(item["SK"])
}

func stringValue(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// lookupPath resolves a possibly nested document path like "price.amount".
func lookupPath(item map[string]types.AttributeValue, path string) types.AttributeValue {
	parts := strings.Split(path, ".")
	var cur types.AttributeValue
	cur, ok := item[parts[0]]
	if !ok {
		return nil
	}
	for _, part := range parts[1:] {
		m, ok := cur.(*types.AttributeValueMemberM)
		if !ok {
			return nil
		}
		cur, ok = m.Value[part]
		if !ok {
			return nil
		}
	}
	return cur
}

func numberValue(av types.AttributeValue) (float64, bool) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

type condClause struct {
	attr  string
	op    string // "=", ">=", "<=", "begins_with"
	value types.AttributeValue
}

var (
	beginsWithClause = regexp.MustCompile(`^begins_with\s*\(\s*(\S+)\s*,\s*(\S+)\s*\)$`)
	binaryClause     = regexp.MustCompile(`^(\S+)\s*(=|>=|<=)\s*(\S+)$`)
)

// stripOuterParens removes one pair of parentheses when they wrap the whole
// expression.
func stripOuterParens(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		depth := 0
		wrapping := true
		for i, r := range s {
			if r == '(' {
				depth++
			}
			if r == ')' {
				depth--
				if depth == 0 && i != len(s)-1 {
					wrapping = false
					break
				}
			}
		}
		if !wrapping {
			return s
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// splitAnd splits on AND conjunctions outside parentheses, recursively.
func splitAnd(s string) []string {
	s = stripOuterParens(s)
	depth := 0
	for i := 0; i+5 <= len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && s[i:i+5] == " AND " {
			return append(splitAnd(s[:i]), splitAnd(s[i+5:])...)
		}
	}
	return []string{s}
}

func parseClauses(cond string, names map[string]string, values map[string]types.AttributeValue) ([]condClause, error) {
	for alias, name := range names {
		cond = strings.ReplaceAll(cond, alias, name)
	}
	var clauses []condClause
	for _, part := range splitAnd(cond) {
		if sub := beginsWithClause.FindStringSubmatch(part); sub != nil {
			clauses = append(clauses, condClause{attr: sub[1], op: "begins_with", value: values[sub[2]]})
		} else if sub := binaryClause.FindStringSubmatch(part); sub != nil {
			clauses = append(clauses, condClause{attr: sub[1], op: sub[2], value: values[sub[3]]})
		} else {
			return nil, fmt.Errorf("mock cannot evaluate clause %q", part)
		}
	}
	return clauses, nil
}

func matches(item map[string]types.AttributeValue, clauses []condClause) bool {
	for _, cl := range clauses {
		got := lookupPath(item, cl.attr)
		switch cl.op {
		case "begins_with":
			s, ok := got.(*types.AttributeValueMemberS)
			if !ok || !strings.HasPrefix(s.Value, stringValue(cl.value)) {
				return false
			}
		case "=":
			if want, ok := cl.value.(*types.AttributeValueMemberS); ok {
				s, ok := got.(*types.AttributeValueMemberS)
				if !ok || s.Value != want.Value {
					return false
				}
			} else if want, ok := numberValue(cl.value); ok {
				have, ok := numberValue(got)
				if !ok || have != want {
					return false
				}
			} else {
				return false
			}
		case ">=", "<=":
			want, ok := numberValue(cl.value)
			if !ok {
				return false
			}
			have, ok := numberValue(got)
			if !ok {
				return false
			}
			if cl.op == ">=" && have < want {
				return false
			}
			if cl.op == "<=" && have > want {
				return false
			}
		}
	}
	return true
}

// page sorts by SK, applies the exclusive start key and the limit, and
// reports the last evaluated key when more items remain.
func page(items []map[string]types.AttributeValue, limit *int32, startKey map[string]types.AttributeValue) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	sort.Slice(items, func(i, j int) bool {
		return stringValue(items[i]["SK"]) < stringValue(items[j]["SK"])
	})
	if startKey != nil {
		start := stringValue(startKey["SK"])
		for len(items) > 0 && stringValue(items[0]["SK"]) <= start {
			items = items[1:]
		}
	}
	if limit != nil && len(items) > int(*limit) {
		pageItems := items[:*limit]
		last := pageItems[len(pageItems)-1]
		return pageItems, map[string]types.AttributeValue{"PK": last["PK"], "SK": last["SK"]}
	}
	return items, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[itemKey(params.Item)] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey(params.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey(params.Key)]
	if !ok {
		return nil, fmt.Errorf("item not found")
	}

	expr := strings.TrimSpace(*params.UpdateExpression)
	expr = strings.TrimPrefix(expr, "SET ")
	for alias, name := range params.ExpressionAttributeNames {
		expr = strings.ReplaceAll(expr, alias, name)
	}
	for _, assignment := range strings.Split(expr, ", ") {
		parts := strings.SplitN(assignment, " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("mock cannot apply assignment %q", assignment)
		}
		item[strings.TrimSpace(parts[0])] = params.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
	}
	m.items[itemKey(params.Key)] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey(params.Key)]
	if !ok {
		return &dyn.DeleteItemOutput{}, nil
	}
	delete(m.items, itemKey(params.Key))
	return &dyn.DeleteItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryInputs = append(m.queryInputs, params)

	keyClauses, err := parseClauses(*params.KeyConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	var filterClauses []condClause
	if params.FilterExpression != nil {
		filterClauses, err = parseClauses(*params.FilterExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
	}

	var found []map[string]types.AttributeValue
	for _, item := range m.items {
		if matches(item, keyClauses) && matches(item, filterClauses) {
			found = append(found, item)
		}
	}
	items, last := page(found, params.Limit, params.ExclusiveStartKey)
	return &dyn.QueryOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanInputs = append(m.scanInputs, params)

	var filterClauses []condClause
	if params.FilterExpression != nil {
		var err error
		filterClauses, err = parseClauses(*params.FilterExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
	}

	var found []map[string]types.AttributeValue
	for _, item := range m.items {
		if matches(item, filterClauses) {
			found = append(found, item)
		}
	}
	items, last := page(found, params.Limit, params.ExclusiveStartKey)
	return &dyn.ScanOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range params.TransactItems {
		if it.Put != nil {
			m.items[itemKey(it.Put.Item)] = it.Put.Item
		}
		if it.Delete != nil {
			delete(m.items, itemKey(it.Delete.Key))
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
