package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Carbonhell/SmartDisplay/internal/repository"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	dynamodb.ScanAPIClient
}

type DynamoDBRepository struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoDBRepository(client DynamoDBAPI, table string) repository.EventRepository {
	return &DynamoDBRepository{client: client, table: table}
}

type eventItem struct {
	ID          string       `dynamodbav:"id"`
	Title       string       `dynamodbav:"title"`
	Description string       `dynamodbav:"description"`
	Datetime    string       `dynamodbav:"datetime"`
	Timestamp   epochSeconds `dynamodbav:"timestamp"`
	Building    string       `dynamodbav:"building"`
	Room        string       `dynamodbav:"room"`
}

// epochSeconds is written as a number and read back from a number or a
// numeric string.
type epochSeconds int64

func (e epochSeconds) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(int64(e), 10)}, nil
}

func (e *epochSeconds) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		*e = 0
		return nil
	default:
		return fmt.Errorf("timestamp has unsupported attribute type %T", av)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp %q is not an integer: %w", raw, err)
	}
	*e = epochSeconds(n)
	return nil
}

func toItem(e repository.Event) eventItem {
	return eventItem{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Datetime:    e.Datetime,
		Timestamp:   epochSeconds(e.Timestamp),
		Building:    e.Building,
		Room:        e.Room,
	}
}

func (i eventItem) toEvent() repository.Event {
	return repository.Event{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Datetime:    i.Datetime,
		Timestamp:   int64(i.Timestamp),
		Building:    i.Building,
		Room:        i.Room,
	}
}

func (r *DynamoDBRepository) PutEvent(ctx context.Context, event repository.Event) error {
	item, err := attributevalue.MarshalMap(toItem(event))
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	return err
}

func (r *DynamoDBRepository) ScanEvents(ctx context.Context) ([]repository.Event, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})
	var events []repository.Event
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []eventItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal events: %w", err)
		}
		for _, item := range items {
			events = append(events, item.toEvent())
		}
	}
	return events, nil
}
