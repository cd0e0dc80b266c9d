package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the DynamoDB operations the
// feed uses. Intentionally minimal, not production-grade.
type mockDynamo struct {
	mu          sync.Mutex
	feedTable   map[string]map[string]types.AttributeValue // order_id#rev -> item
	submissions map[string]map[string]types.AttributeValue // submission_id -> item

	scanCalls     int
	queryCalls    int
	transactCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		feedTable:   map[string]map[string]types.AttributeValue{},
		submissions: map[string]map[string]types.AttributeValue{},
	}
}

func feedKey(item map[string]types.AttributeValue) string {
	id := item["order_id"].(*types.AttributeValueMemberS).Value
	rev := item["rev"].(*types.AttributeValueMemberN).Value
	return id + "#" + rev
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++

	id := params.ExpressionAttributeValues[":id"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.feedTable {
		if item["order_id"].(*types.AttributeValueMemberS).Value == id {
			items = append(items, item)
		}
	}
	// descending rev, as ScanIndexForward=false requests
	sort.Slice(items, func(i, j int) bool {
		ri, _ := strconv.ParseInt(items[i]["rev"].(*types.AttributeValueMemberN).Value, 10, 64)
		rj, _ := strconv.ParseInt(items[j]["rev"].(*types.AttributeValueMemberN).Value, 10, 64)
		return ri > rj
	})
	if params.Limit != nil && int32(len(items)) > *params.Limit {
		items = items[:*params.Limit]
	}
	return &dyn.QueryOutput{Items: items}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++

	var keys []string
	for k := range m.feedTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var items []map[string]types.AttributeValue
	for _, k := range keys {
		items = append(items, m.feedTable[k])
	}
	return &dyn.ScanOutput{Items: items}, nil
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactCalls++

	// validate conditions first: a canceled transaction writes nothing
	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, ti := range params.TransactItems {
		code := "None"
		if ti.Put != nil && ti.Put.ConditionExpression != nil {
			switch *ti.Put.ConditionExpression {
			case "attribute_not_exists(submission_id)":
				subID := ti.Put.Item["submission_id"].(*types.AttributeValueMemberS).Value
				if _, ok := m.submissions[subID]; ok {
					code = "ConditionalCheckFailed"
					failed = true
				}
			case "attribute_not_exists(order_id)":
				if _, ok := m.feedTable[feedKey(ti.Put.Item)]; ok {
					code = "ConditionalCheckFailed"
					failed = true
				}
			default:
				return nil, fmt.Errorf("mock: unsupported condition %q", *ti.Put.ConditionExpression)
			}
		}
		reasons[i] = types.CancellationReason{Code: &code}
	}
	if failed {
		return nil, &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	for _, ti := range params.TransactItems {
		switch {
		case ti.Put != nil && *ti.Put.TableName == "submissions":
			subID := ti.Put.Item["submission_id"].(*types.AttributeValueMemberS).Value
			m.submissions[subID] = ti.Put.Item
		case ti.Put != nil:
			m.feedTable[feedKey(ti.Put.Item)] = ti.Put.Item
		case ti.Update != nil:
			key := feedKey(ti.Update.Key)
			item, ok := m.feedTable[key]
			if !ok {
				return nil, fmt.Errorf("mock: update of missing item %s", key)
			}
			if *ti.Update.UpdateExpression == "REMOVE #cur" {
				delete(item, ti.Update.ExpressionAttributeNames["#cur"])
			} else {
				return nil, fmt.Errorf("mock: unsupported update %q", *ti.Update.UpdateExpression)
			}
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
