package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-events-api/internal/domain"
)

// OTPRepo stores club access codes keyed by code.
// PK: code, GSI: otp_id. A code's slot can be reused once its previous row
// is used, expired, or past expires_at.
type OTPRepo struct {
	client    API
	tableName string
	now       func() time.Time
}

func NewOTPRepo(client API, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName, now: time.Now}
}

func (r *OTPRepo) Create(ctx context.Context, o *domain.ClubAccessOTP) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal club access code: %w", err)
	}
	nowAV, err := attributevalue.Marshal(attributevalue.UnixTime(r.now()))
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#code) OR #status <> :pending OR #exp < :now"),
		ExpressionAttributeNames: map[string]string{
			"#code":   fieldCode,
			"#status": fieldStatus,
			"#exp":    fieldExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": strVal(domain.OTPStatusPending),
			":now":     nowAV,
		},
	})
	if conditionFailed(err) {
		return fmt.Errorf("pending code already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *OTPRepo) FindPending(ctx context.Context, clubID, code string) (*domain.ClubAccessOTP, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldCode, code),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, notFound("club access code")
	}
	var o domain.ClubAccessOTP
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, err
	}
	if o.ClubID != clubID || o.Status != domain.OTPStatusPending {
		return nil, notFound("club access code")
	}
	return &o, nil
}

func (r *OTPRepo) MarkUsed(ctx context.Context, otpID string, usedAt time.Time) error {
	usedAV, err := attributevalue.Marshal(usedAt)
	if err != nil {
		return err
	}
	return r.transition(ctx, otpID, domain.OTPStatusUsed, "#used = :used",
		map[string]string{"#used": fieldUsedAt},
		map[string]types.AttributeValue{":used": usedAV})
}

func (r *OTPRepo) MarkExpired(ctx context.Context, otpID string) error {
	return r.transition(ctx, otpID, domain.OTPStatusExpired, "", nil, nil)
}

// transition moves the row identified by otpID out of pending. The update
// is conditional on the row still being pending with the same otp_id, so a
// row that already moved on reports ErrNotFound.
func (r *OTPRepo) transition(ctx context.Context, otpID, status, extraSet string,
	extraNames map[string]string, extraValues map[string]types.AttributeValue) error {
	code, err := r.codeFor(ctx, otpID)
	if err != nil {
		return err
	}

	names := map[string]string{"#status": fieldStatus, "#id": fieldOTPID}
	values := map[string]types.AttributeValue{
		":to":      strVal(status),
		":pending": strVal(domain.OTPStatusPending),
		":id":      strVal(otpID),
	}
	for k, v := range extraNames {
		names[k] = v
	}
	for k, v := range extraValues {
		values[k] = v
	}
	set := "SET #status = :to"
	if extraSet != "" {
		set += ", " + extraSet
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldCode, code),
		UpdateExpression:          aws.String(set),
		ConditionExpression:       aws.String("#id = :id AND #status = :pending"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if conditionFailed(err) {
		return notFound("pending club access code")
	}
	return err
}

func (r *OTPRepo) codeFor(ctx context.Context, otpID string) (string, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexOTPsByID),
		KeyConditionExpression:    aws.String("#id = :id"),
		ExpressionAttributeNames:  map[string]string{"#id": fieldOTPID},
		ExpressionAttributeValues: map[string]types.AttributeValue{":id": strVal(otpID)},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return "", err
	}
	if len(out.Items) == 0 {
		return "", notFound("club access code")
	}
	code, ok := out.Items[0][fieldCode].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("club access code %s has no code attribute", otpID)
	}
	return code.Value, nil
}
