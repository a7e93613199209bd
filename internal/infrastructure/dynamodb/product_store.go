package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kolyapvp/products-app/internal/domain/product"
)

// ProductStore keeps products in a table keyed by the string attribute "id".
type ProductStore struct {
	client API
	table  string
}

func NewProductStore(client API, table string) *ProductStore {
	return &ProductStore{client: client, table: table}
}

func (s *ProductStore) Create(ctx context.Context, p product.Product) (product.Product, error) {
	err := s.put(ctx, p, expression.AttributeNotExists(expression.Name("id")))
	if isConditionFailed(err) {
		return product.Product{}, product.ErrAlreadyExists
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("put product: %w", err)
	}
	return p, nil
}

// Update replaces the item only if it already exists. The store evaluates
// the condition atomically with the write.
func (s *ProductStore) Update(ctx context.Context, id string, in product.Input) (product.Product, error) {
	p := in.Apply(id)
	err := s.put(ctx, p, expression.AttributeExists(expression.Name("id")))
	if isConditionFailed(err) {
		return product.Product{}, product.ErrNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) (product.Product, error) {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return product.Product{}, fmt.Errorf("build condition: %w", err)
	}

	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.table),
		Key:                      idKey(id),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
		ReturnValues:             types.ReturnValueAllOld,
	})
	if isConditionFailed(err) {
		return product.Product{}, product.ErrNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("delete product: %w", err)
	}

	var p product.Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return product.Product{}, fmt.Errorf("unmarshal deleted product: %w", err)
	}
	return p, nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (product.Product, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       idKey(id),
	})
	if err != nil {
		return product.Product{}, fmt.Errorf("get product: %w", err)
	}
	if len(out.Item) == 0 {
		return product.Product{}, product.ErrNotFound
	}

	var p product.Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return product.Product{}, fmt.Errorf("unmarshal product: %w", err)
	}
	return p, nil
}

// List scans the whole table.
func (s *ProductStore) List(ctx context.Context) ([]product.Product, error) {
	products := []product.Product{}
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan products: %w", err)
		}
		var batch []product.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		products = append(products, batch...)
	}
	return products, nil
}

func (s *ProductStore) put(ctx context.Context, p product.Product, cond expression.ConditionBuilder) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	return err
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
