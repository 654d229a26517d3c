package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-events-api/internal/domain"
)

// PendingClubRepo stores club registrations awaiting PIN confirmation.
// PK: pending_club_id, GSI: official_email.
type PendingClubRepo struct {
	client    API
	tableName string
}

func NewPendingClubRepo(client API, tableName string) *PendingClubRepo {
	return &PendingClubRepo{client: client, tableName: tableName}
}

func (r *PendingClubRepo) Create(ctx context.Context, p *domain.PendingClub) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal pending club: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PendingClubRepo) FindByEmailAndPin(ctx context.Context, email, pin string) (*domain.PendingClub, error) {
	matches, err := r.query(ctx, email, pin)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, notFound("pending club")
	}
	return &matches[0], nil
}

func (r *PendingClubRepo) ListByEmail(ctx context.Context, email string) ([]domain.PendingClub, error) {
	return r.query(ctx, email, "")
}

// query returns the email's registrations newest first, optionally filtered
// to one PIN.
func (r *PendingClubRepo) query(ctx context.Context, email, pin string) ([]domain.PendingClub, error) {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexPendingClubsByMail),
		KeyConditionExpression:    aws.String("#e = :e"),
		ExpressionAttributeNames:  map[string]string{"#e": fieldOfficialEmail},
		ExpressionAttributeValues: map[string]types.AttributeValue{":e": strVal(email)},
	}
	if pin != "" {
		input.FilterExpression = aws.String("#p = :p")
		input.ExpressionAttributeNames["#p"] = fieldPin
		input.ExpressionAttributeValues[":p"] = strVal(pin)
	}

	out := []domain.PendingClub{}
	p := dynamodb.NewQueryPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query pending clubs: %w", err)
		}
		var batch []domain.PendingClub
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
