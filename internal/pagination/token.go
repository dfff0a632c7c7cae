package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/orderstack/commerce-services/internal/errs"
)

// EncodeToken converts a LastEvaluatedKey into an opaque continuation token.
// Returns "" for a nil or empty key, meaning the result set is exhausted.
func EncodeToken(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}

	plain := map[string]interface{}{}
	if err := attributevalue.UnmarshalMap(key, &plain); err != nil {
		return "", fmt.Errorf("unmarshal last evaluated key: %w", err)
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("marshal token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeToken converts a client-supplied token back into an exclusive start
// key. A malformed token is the client's fault and yields a ValidationError.
func DecodeToken(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, errs.NewValidation("invalid pagination token")
	}
	plain := map[string]interface{}{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, errs.NewValidation("invalid pagination token")
	}
	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, errs.NewValidation("invalid pagination token")
	}
	return key, nil
}
