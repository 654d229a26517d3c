package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-events-api/internal/domain"
)

type EventRepo struct {
	client    API
	tableName string
}

func NewEventRepo(client API, tableName string) *EventRepo {
	return &EventRepo{client: client, tableName: tableName}
}

func (r *EventRepo) Put(ctx context.Context, e *domain.Event) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldEventID},
	})
	if conditionFailed(err) {
		return fmt.Errorf("event already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *EventRepo) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldEventID, eventID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, notFound("event")
	}
	var e domain.Event
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByClub reads the club's events from the GSI, ordered by start time.
func (r *EventRepo) ListByClub(ctx context.Context, clubID string) ([]domain.Event, error) {
	events := []domain.Event{}
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexEventsByClub),
		KeyConditionExpression:    aws.String("#c = :c"),
		ExpressionAttributeNames:  map[string]string{"#c": fieldClubID},
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": strVal(clubID)},
		ScanIndexForward:          aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query events: %w", err)
		}
		var batch []domain.Event
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		events = append(events, batch...)
	}
	return events, nil
}

// ListUpcoming returns events that have not ended by after, soonest first.
func (r *EventRepo) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Event, error) {
	afterAV, err := attributevalue.Marshal(attributevalue.UnixTime(after))
	if err != nil {
		return nil, err
	}
	events := []domain.Event{}
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          aws.String("#end > :after"),
		ExpressionAttributeNames:  map[string]string{"#end": fieldEndsAt},
		ExpressionAttributeValues: map[string]types.AttributeValue{":after": afterAV},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan events: %w", err)
		}
		var batch []domain.Event
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		events = append(events, batch...)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].StartsAt.Before(events[j].StartsAt) })
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"title":        e.Title,
		"description":  e.Description,
		"location":     e.Location,
		fieldStartsAt:  attributevalue.UnixTime(e.StartsAt),
		fieldEndsAt:    attributevalue.UnixTime(e.EndsAt),
		"image_url":    e.ImageURL,
		fieldUpdatedAt: e.UpdatedAt,
	})
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldEventID
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEventID, e.EventID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if conditionFailed(err) {
		return notFound("event")
	}
	return err
}

func (r *EventRepo) Delete(ctx context.Context, eventID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey(fieldEventID, eventID),
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldEventID},
	})
	if conditionFailed(err) {
		return notFound("event")
	}
	return err
}
