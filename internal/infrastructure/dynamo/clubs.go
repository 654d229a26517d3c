package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-events-api/internal/domain"
)

type ClubRepo struct {
	client    API
	tableName string
}

func NewClubRepo(client API, tableName string) *ClubRepo {
	return &ClubRepo{client: client, tableName: tableName}
}

func (r *ClubRepo) Put(ctx context.Context, c *domain.Club) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal club: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldClubID},
	})
	if conditionFailed(err) {
		return fmt.Errorf("club already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *ClubRepo) Get(ctx context.Context, clubID string) (*domain.Club, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldClubID, clubID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, notFound("club")
	}
	var c domain.Club
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List scans the whole table and returns the newest limit clubs.
func (r *ClubRepo) List(ctx context.Context, limit int) ([]domain.Club, error) {
	clubs := []domain.Club{}
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan clubs: %w", err)
		}
		var batch []domain.Club
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		clubs = append(clubs, batch...)
	}
	sort.SliceStable(clubs, func(i, j int) bool { return clubs[i].CreatedAt.After(clubs[j].CreatedAt) })
	if len(clubs) > limit {
		clubs = clubs[:limit]
	}
	return clubs, nil
}

func (r *ClubRepo) Update(ctx context.Context, c *domain.Club) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"name":             c.Name,
		"description":      c.Description,
		fieldOfficialEmail: c.OfficialEmail,
		"logo_url":         c.LogoURL,
		fieldUpdatedAt:     c.UpdatedAt,
	})
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldClubID
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldClubID, c.ClubID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if conditionFailed(err) {
		return notFound("club")
	}
	return err
}
