package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"todo-api/models"
)

// DynamoAPI is the subset of the DynamoDB client the store calls.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore keeps todos in a DynamoDB table with partition key todoId and
// a global secondary index on userId.
type DynamoStore struct {
	client    DynamoAPI
	table     string
	userIndex string
}

func NewDynamoStore(client DynamoAPI, table, userIndex string) *DynamoStore {
	return &DynamoStore{client: client, table: table, userIndex: userIndex}
}

// itemExists keeps UpdateItem from creating a bare record when the todo was
// deleted after it was loaded.
const itemExists = "attribute_exists(todoId)"

func updateError(op string, err error) error {
	var condFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condFailed) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return models.NewStorageError(op, err)
}

func (s *DynamoStore) key(todoID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"todoId": &types.AttributeValueMemberS{Value: todoID},
	}
}

func (s *DynamoStore) Create(ctx context.Context, item models.TodoItem) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return models.NewStorageError("create", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	return models.NewStorageError("create", err)
}

func (s *DynamoStore) GetByID(ctx context.Context, todoID string) (models.TodoItem, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(todoID),
	})
	if err != nil {
		return models.TodoItem{}, false, models.NewStorageError("get", err)
	}
	if len(out.Item) == 0 {
		return models.TodoItem{}, false, nil
	}

	var item models.TodoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return models.TodoItem{}, false, models.NewStorageError("get", err)
	}
	return item, true, nil
}

func (s *DynamoStore) ListByUser(ctx context.Context, userID string) ([]models.TodoItem, error) {
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.userIndex),
		KeyConditionExpression: aws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})

	items := []models.TodoItem{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, models.NewStorageError("list", err)
		}
		var batch []models.TodoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, models.NewStorageError("list", err)
		}
		items = append(items, batch...)
	}
	return items, nil
}

func (s *DynamoStore) Update(ctx context.Context, todoID string, update models.TodoUpdate) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 s.key(todoID),
		UpdateExpression:    aws.String("set #name = :name, dueDate = :dueDate, done = :done"),
		ConditionExpression: aws.String(itemExists),
		ExpressionAttributeNames: map[string]string{
			"#name": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":    &types.AttributeValueMemberS{Value: update.Name},
			":dueDate": &types.AttributeValueMemberS{Value: update.DueDate},
			":done":    &types.AttributeValueMemberBOOL{Value: update.Done},
		},
	})
	return updateError("update", err)
}

func (s *DynamoStore) UpdateAttachmentURL(ctx context.Context, todoID, url string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 s.key(todoID),
		UpdateExpression:    aws.String("set attachmentUrl = :attachmentUrl"),
		ConditionExpression: aws.String(itemExists),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":attachmentUrl": &types.AttributeValueMemberS{Value: url},
		},
	})
	return updateError("update attachment", err)
}

// Delete is idempotent: DynamoDB does not fail on a missing key.
func (s *DynamoStore) Delete(ctx context.Context, todoID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(todoID),
	})
	return models.NewStorageError("delete", err)
}
