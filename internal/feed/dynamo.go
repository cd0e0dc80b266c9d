package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hazelbrew/cafe-orderflow/internal/awsx"
	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// rowItem is the shape stored in the feed table. Partition key order_id,
// sort key rev; rows are only ever added, never updated in place (except
// to clear the previous current marker).
type rowItem struct {
	orders.Order
	Rev          int64  `dynamodbav:"rev"`
	SubmissionID string `dynamodbav:"submission_id,omitempty"`
}

// DynamoFeed is both Source and Appender over a DynamoDB-backed feed.
// Unlike the spreadsheet feed it assigns a monotonically increasing rev per
// order id, so "latest" never depends on marker consistency; the marker is
// still written for compatibility with the shared reconciliation path.
type DynamoFeed struct {
	client         awsx.DynamoDBAPI
	tableName      string
	submissionsTbl string
	ttlWindow      time.Duration
	nowFunc        func() time.Time
}

// NewDynamoFeed returns a feed bound to the given tables. submissionsTable
// tracks applied submission ids so redelivered queue messages append
// nothing twice.
func NewDynamoFeed(client awsx.DynamoDBAPI, tableName, submissionsTable string, ttlWindow time.Duration) *DynamoFeed {
	return &DynamoFeed{
		client:         client,
		tableName:      tableName,
		submissionsTbl: submissionsTable,
		ttlWindow:      ttlWindow,
		nowFunc:        time.Now,
	}
}

// Fetch scans the full history. The feed is read whole on every query.
func (f *DynamoFeed) Fetch(ctx context.Context) ([]Row, error) {
	var rows []Row
	var startKey map[string]types.AttributeValue
	for {
		out, err := f.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &f.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, &orders.TransportError{Op: "scan feed table", Err: err}
		}
		for _, item := range out.Items {
			var ri rowItem
			if err := attributevalue.UnmarshalMap(item, &ri); err != nil {
				return nil, &orders.TransportError{Op: "unmarshal feed row", Err: err}
			}
			rows = append(rows, Row{Order: ri.Order, Rev: ri.Rev})
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return rows, nil
}

// Append adds the submitted snapshot as the next revision of its order, in
// one transaction that also records the submission id and clears the
// previous row's current marker. A submission that was already applied is
// swallowed, not re-appended.
func (f *DynamoFeed) Append(ctx context.Context, sub Submission) error {
	prevRev, err := f.latestRev(ctx, sub.Order.ID)
	if err != nil {
		return err
	}

	item := rowItem{
		Order:        sub.Order,
		Rev:          prevRev + 1,
		SubmissionID: sub.ID,
	}
	item.Current = orders.RevisionCurrent

	itemMap, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal feed row: %w", err)
	}

	now := f.nowFunc()
	subItem := map[string]types.AttributeValue{
		"submission_id": &types.AttributeValueMemberS{Value: sub.ID},
		"order_id":      &types.AttributeValueMemberS{Value: sub.Order.ID},
		"applied_at":    &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
	}
	if f.ttlWindow > 0 {
		subItem["expires_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(f.ttlWindow).Unix(), 10)}
	}

	transactItems := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           &f.submissionsTbl,
				Item:                subItem,
				ConditionExpression: awsString("attribute_not_exists(submission_id)"),
			},
		},
		{
			Put: &types.Put{
				TableName:           &f.tableName,
				Item:                itemMap,
				ConditionExpression: awsString("attribute_not_exists(order_id)"),
			},
		},
	}
	if prevRev > 0 {
		transactItems = append(transactItems, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &f.tableName,
				Key: map[string]types.AttributeValue{
					"order_id": &types.AttributeValueMemberS{Value: sub.Order.ID},
					"rev":      &types.AttributeValueMemberN{Value: strconv.FormatInt(prevRev, 10)},
				},
				UpdateExpression: awsString("REMOVE #cur"),
				ExpressionAttributeNames: map[string]string{
					"#cur": "current",
				},
			},
		})
	}

	_, err = f.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) > 0 {
			if reason := tce.CancellationReasons[0]; reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				// submission already applied: duplicate delivery
				return nil
			}
			// lost a rev race with a concurrent appender; the caller
			// retries and recomputes the rev
			return &orders.TransportError{Op: "append feed row", Err: err}
		}
		return &orders.TransportError{Op: "append feed row", Err: err}
	}
	return nil
}

// latestRev returns the highest rev stored for an order id, 0 when the
// order has no rows yet.
func (f *DynamoFeed) latestRev(ctx context.Context, orderID string) (int64, error) {
	out, err := f.client.Query(ctx, &dyn.QueryInput{
		TableName:              &f.tableName,
		KeyConditionExpression: awsString("order_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: orderID},
		},
		ScanIndexForward: awsBool(false),
		Limit:            awsInt32(1),
	})
	if err != nil {
		return 0, &orders.TransportError{Op: "query latest rev", Err: err}
	}
	if len(out.Items) == 0 {
		return 0, nil
	}
	var ri rowItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &ri); err != nil {
		return 0, &orders.TransportError{Op: "unmarshal feed row", Err: err}
	}
	return ri.Rev, nil
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool { return &b }
func awsInt32(n int32) *int32 { return &n }
