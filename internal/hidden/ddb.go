package hidden

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// hiddenPK partitions every hidden-key item; the claim key is the sort key.
const hiddenPK = "HIDDEN"

// hiddenItem is the DynamoDB item shape for one hidden claim key.
type hiddenItem struct {
	PK  string `dynamodbav:"PK"`
	SK  string `dynamodbav:"SK"`
	Key string `dynamodbav:"claim_key"`
}

// DDBStore persists hidden claim keys in a DynamoDB table, for deployments
// where several operator consoles share confirm state.
type DDBStore struct {
	db    *dynamodb.Client
	table string
}

// OpenDDB loads AWS configuration for the region and returns a store over
// the given table. AWS_ENDPOINT_URL redirects to a local endpoint
// (e.g. http://localstack:4566) during development.
func OpenDDB(ctx context.Context, region, table string) (*DDBStore, error) {
	endpoint := os.Getenv("AWS_ENDPOINT_URL")
	opts := []func(*awsCfg.LoadOptions) error{awsCfg.WithRegion(region)}
	if endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, r string, _ ...any) (aws.Endpoint, error) {
			return aws.Endpoint{URL: endpoint, HostnameImmutable: true, PartitionID: "aws"}, nil
		})
		opts = append(opts, awsCfg.WithEndpointResolverWithOptions(resolver))
	}
	cfg, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &DDBStore{db: dynamodb.NewFromConfig(cfg), table: table}, nil
}

// Add implements Store.
func (s *DDBStore) Add(key string) error {
	item, err := attributevalue.MarshalMap(hiddenItem{PK: hiddenPK, SK: key, Key: key})
	if err != nil {
		return err
	}
	_, err = s.db.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	})
	return err
}

// Has implements Store.
func (s *DDBStore) Has(key string) (bool, error) {
	out, err := s.db.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: hiddenPK},
			"SK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return false, err
	}
	return len(out.Item) > 0, nil
}

// Clear implements Store. It queries the hidden partition and deletes each
// item; the set stays small enough that paging one query is sufficient.
func (s *DDBStore) Clear() error {
	ctx := context.Background()
	pk := hiddenPK
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &s.table,
		KeyConditionExpression:    aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: pk}},
	})
	if err != nil {
		return err
	}
	for _, item := range out.Items {
		_, err := s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: &s.table,
			Key:       map[string]types.AttributeValue{"PK": item["PK"], "SK": item["SK"]},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Close implements Store.
func (s *DDBStore) Close() error { return nil }
