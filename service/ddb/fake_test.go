/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory table understanding the expressions Service emits
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int

	throttle   int
	queryErr   error
	queryCalls int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func strAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func tableKey(key map[string]types.AttributeValue) string {
	return strAttr(key[AttrPK]) + "|" + strAttr(key[AttrSK])
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeDynamo) check(condition *string, exists bool) error {
	switch aws.ToString(condition) {
	case "attribute_not_exists(PK)":
		if exists {
			return conditionFailed()
		}
	case "attribute_exists(PK)":
		if !exists {
			return conditionFailed()
		}
	}
	return nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[tableKey(in.Key)]
	if !ok {
		return &sdk.GetItemOutput{}, nil
	}
	return &sdk.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := tableKey(in.Item)
	_, exists := f.items[k]
	if err := f.check(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	f.items[k] = copyItem(in.Item)
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := tableKey(in.Key)
	_, exists := f.items[k]
	if err := f.check(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	delete(f.items, k)
	return &sdk.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *sdk.UpdateItemInput, _ ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := tableKey(in.Key)
	item, exists := f.items[k]
	if err := f.check(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	for placeholder, field := range in.ExpressionAttributeNames {
		item[field] = in.ExpressionAttributeValues[":v"+strings.TrimPrefix(placeholder, "#f")]
	}
	return &sdk.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.throttle > 0 {
		f.throttle--
		return nil, &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")}
	}
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	pk := strAttr(in.ExpressionAttributeValues[":pk"])
	var sks []string
	for _, item := range f.items {
		if strAttr(item[AttrPK]) == pk {
			sks = append(sks, strAttr(item[AttrSK]))
		}
	}
	sort.Strings(sks)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := strAttr(in.ExclusiveStartKey[AttrSK])
		start = sort.SearchStrings(sks, after)
		if start < len(sks) && sks[start] == after {
			start++
		}
	}
	end := len(sks)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &sdk.QueryOutput{}
	for _, sk := range sks[start:end] {
		out.Items = append(out.Items, copyItem(f.items[pk+"|"+sk]))
	}
	if end < len(sks) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			AttrPK: &types.AttributeValueMemberS{Value: pk},
			AttrSK: &types.AttributeValueMemberS{Value: sks[end-1]},
		}
	}
	return out, nil
}
