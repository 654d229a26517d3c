package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-events-api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
type UserRepo struct {
	client    API
	tableName string
}

func NewUserRepo(client API, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Upsert writes the profile fields of u and keeps created_at from the first
// sync.
func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"email":           u.Email,
		"full_name":       u.FullName,
		"avatar_url":      u.AvatarURL,
		"provider":        u.Provider,
		"last_sign_in_at": u.LastSignInAt,
		fieldUpdatedAt:    u.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	created, err := attributevalue.Marshal(u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("marshal created_at: %w", err)
	}
	ue.Names["#created"] = fieldCreatedAt
	ue.Values[":created"] = created

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", u.UserID),
		UpdateExpression:          aws.String(ue.Expr + ", #created = if_not_exists(#created, :created)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	var stored domain.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &stored, nil
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, notFound("user")
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
