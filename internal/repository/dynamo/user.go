package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/vibtellect/user-service/internal/model"
)

// API is the subset of the DynamoDB client used by the repository.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository persists users in a DynamoDB table keyed by userId.
// Lookups by email and username are filtered scans; the table enforces no
// uniqueness beyond the partition key.
type UserRepository struct {
	client API
	table  string
}

// NewUserRepository creates a repository over the given table.
func NewUserRepository(client API, table string) *UserRepository {
	return &UserRepository{
		client: client,
		table:  table,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if out.Item == nil {
		return model.User{}, model.ErrNotFound
	}

	var user model.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return model.User{}, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanFirst(ctx, "email = :email", map[string]types.AttributeValue{
		":email": &types.AttributeValueMemberS{Value: email},
	})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanFirst(ctx, "username = :username", map[string]types.AttributeValue{
		":username": &types.AttributeValueMemberS{Value: username},
	})
}

func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, value string) (model.User, error) {
	return r.scanFirst(ctx, "username = :value OR email = :value", map[string]types.AttributeValue{
		":value": &types.AttributeValueMemberS{Value: value},
	})
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return r.scan(ctx, "", nil)
}

func (r *UserRepository) ListActive(ctx context.Context) ([]model.User, error) {
	return r.scan(ctx, "active = :active", map[string]types.AttributeValue{
		":active": &types.AttributeValueMemberBOOL{Value: true},
	})
}

func (r *UserRepository) Put(ctx context.Context, user model.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put user: %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// scan collects all items matching the filter, following LastEvaluatedKey
// across pages. An empty filter scans the whole table.
func (r *UserRepository) scan(ctx context.Context, filter string, values map[string]types.AttributeValue) ([]model.User, error) {
	var users []model.User
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(r.table),
			ExclusiveStartKey: startKey,
		}
		if filter != "" {
			input.FilterExpression = aws.String(filter)
			input.ExpressionAttributeValues = values
		}

		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan users: %w", err)
		}

		var page []model.User
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal users: %w", err)
		}
		users = append(users, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return users, nil
}

func (r *UserRepository) scanFirst(ctx context.Context, filter string, values map[string]types.AttributeValue) (model.User, error) {
	users, err := r.scan(ctx, filter, values)
	if err != nil {
		return model.User{}, err
	}
	if len(users) == 0 {
		return model.User{}, model.ErrNotFound
	}

	return users[0], nil
}
