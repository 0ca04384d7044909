/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/suparena/crudstore/resourcemodels"
)

// FetchAll lists one page of the resource. Params filter on field equality.
func (s *Service) FetchAll(ctx context.Context, q resourcemodels.ListQuery) (*resourcemodels.Page[Record], error) {
	all, err := s.scanPartition(ctx)
	if err != nil {
		return nil, err
	}
	matched := filterRecords(all, func(r Record) bool { return matchParams(r, q.Params) })
	sortRecords(matched, resourcemodels.OrderBy{Key: q.SortBy, Order: q.SortOrder})
	return s.paginate(matched, q.Page, q.PerPage), nil
}

// Search lists one page of records whose field contains the value, case
// insensitively. With a relationship the field is read from that nested object.
func (s *Service) Search(ctx context.Context, q resourcemodels.SearchQuery) (*resourcemodels.Page[Record], error) {
	all, err := s.scanPartition(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q.Value)
	matched := filterRecords(all, func(r Record) bool {
		if !matchParams(r, q.Params) {
			return false
		}
		v, ok := fieldValue(r, q.Relationship, q.Field)
		return ok && strings.Contains(strings.ToLower(resourcemodels.FormatID(v)), needle)
	})
	sortRecords(matched, q.OrderBy)
	return s.paginate(matched, q.Page, q.PerPage), nil
}

// scanPartition reads every item of the resource partition, following
// LastEvaluatedKey and retrying throttled pages.
func (s *Service) scanPartition(ctx context.Context) ([]Record, error) {
	pk := expandMacros(s.pkTmpl, map[string]string{"resource": s.resource})
	input := &sdk.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
	}

	var out []Record
	pages := 0
	for {
		page, err := s.queryWithRetry(ctx, input)
		if err != nil {
			return nil, err
		}
		pages++
		for _, item := range page.Items {
			rec, err := decodeItem(item)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}

	s.log.WithFields(logrus.Fields{"pages": pages, "items": len(out)}).Debug("partition scanned")
	return out, nil
}

func (s *Service) queryWithRetry(ctx context.Context, input *sdk.QueryInput) (*sdk.QueryOutput, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryBackoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, s.maxRetries), ctx)

	var out *sdk.QueryOutput
	err := backoff.RetryNotify(func() error {
		res, err := s.api.Query(ctx, input)
		if err != nil {
			if isRetryableError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		out = res
		return nil
	}, policy, func(err error, wait time.Duration) {
		s.log.WithError(err).WithField("wait", wait).Warn("retrying query")
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "querying %s", s.resource)
	}
	return out, nil
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var pte *types.ProvisionedThroughputExceededException
	var rle *types.RequestLimitExceeded
	var ise *types.InternalServerError
	if stderrors.As(err, &pte) || stderrors.As(err, &rle) || stderrors.As(err, &ise) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if stderrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

func (s *Service) paginate(records []Record, page, perPage int) *resourcemodels.Page[Record] {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.perPage
	}

	start := (page - 1) * perPage
	if start > len(records) {
		start = len(records)
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	return &resourcemodels.Page[Record]{
		Data:  append([]Record{}, records[start:end]...),
		Total: len(records),
		Page:  page,
	}
}

func filterRecords(records []Record, keep func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func matchParams(r Record, params map[string]string) bool {
	for k, want := range params {
		if resourcemodels.FormatID(r[k]) != want {
			return false
		}
	}
	return true
}

func fieldValue(r Record, relationship, field string) (any, bool) {
	if relationship == "" {
		v, ok := r[field]
		return v, ok
	}
	nested, ok := r[relationship].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := nested[field]
	return v, ok
}

// sortRecords orders records by the key, numerically when both values are
// numbers. Records missing the key sort first.
func sortRecords(records []Record, order resourcemodels.OrderBy) {
	if order.Key == "" {
		return
	}
	order = order.Normalize()
	sort.SliceStable(records, func(i, j int) bool {
		c := compareValues(records[i][order.Key], records[j][order.Key])
		if order.Order == resourcemodels.OrderDesc {
			return c > 0
		}
		return c < 0
	})
}

func compareValues(a, b any) int {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(denil(a))), strings.ToLower(fmt.Sprint(denil(b))))
}

func denil(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
