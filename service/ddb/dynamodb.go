/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/service"
)

// Attributes written next to the record fields
const (
	AttrPK         = "PK"
	AttrSK         = "SK"
	AttrEntityType = "EntityType"
	AttrCreatedAt  = "created_at"
	AttrUpdatedAt  = "updated_at"
)

// Default key templates. {resource} is the resource name, any other macro
// is a record field.
const (
	DefaultPKTemplate = "{resource}"
	DefaultSKTemplate = "{resource}#{id}"
)

// DefaultPerPage is the page size used when a query does not carry one
const DefaultPerPage = 15

// API is the part of the DynamoDB client the service uses
type API interface {
	GetItem(ctx context.Context, in *sdk.GetItemInput, opts ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, in *sdk.PutItemInput, opts ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, opts ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, in *sdk.UpdateItemInput, opts ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	Query(ctx context.Context, in *sdk.QueryInput, opts ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

var _ API = (*sdk.Client)(nil)

type Record = resourcemodels.Record

// Service stores the records of one resource in a single DynamoDB table
type Service struct {
	api       API
	tableName string
	resource  string
	pkTmpl    string
	skTmpl    string
	perPage   int

	maxRetries   uint64
	retryBackoff time.Duration

	now   func() time.Time
	newID func() string
	log   *logrus.Entry
}

var (
	_ service.Service[Record] = (*Service)(nil)
	_ service.Patcher[Record] = (*Service)(nil)
)

// Option configures a Service
type Option func(*Service)

// WithKeyTemplates overrides the partition and sort key templates
func WithKeyTemplates(pk, sk string) Option {
	return func(s *Service) {
		s.pkTmpl, s.skTmpl = pk, sk
	}
}

// WithPerPage sets the page size used when a query does not carry one
func WithPerPage(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.perPage = n
		}
	}
}

// WithRetry sets how often throttled queries are retried
func WithRetry(maxRetries uint64, initial time.Duration) Option {
	return func(s *Service) {
		s.maxRetries, s.retryBackoff = maxRetries, initial
	}
}

// WithClock replaces the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDFunc replaces the id generator used on create
func WithIDFunc(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithLogger sets the service logger
func WithLogger(log *logrus.Entry) Option {
	return func(s *Service) { s.log = log }
}

// ClientConfig holds what is needed to reach DynamoDB
type ClientConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint points at DynamoDB Local or another compatible server.
	Endpoint string
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are
// used when both keys are set, the default chain otherwise.
func NewDynamoDBClient(ctx context.Context, cc ClientConfig) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cc.Region)}
	if cc.AccessKey != "" && cc.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cc.AccessKey, cc.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load AWS configuration")
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if cc.Endpoint != "" {
			o.BaseEndpoint = aws.String(cc.Endpoint)
		}
	}), nil
}

// New creates the service of resource backed by tableName
func New(api API, tableName, resource string, opts ...Option) (*Service, error) {
	if api == nil || tableName == "" || resource == "" {
		return nil, pkgerrors.Wrap(errors.ErrInvalidConfig, "ddb service needs a client, a table and a resource")
	}
	s := &Service{
		api:          api,
		tableName:    tableName,
		resource:     resource,
		pkTmpl:       DefaultPKTemplate,
		skTmpl:       DefaultSKTemplate,
		perPage:      DefaultPerPage,
		maxRetries:   3,
		retryBackoff: 100 * time.Millisecond,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	s.log = s.log.WithFields(logrus.Fields{"component": "ddb", "resource": resource})
	return s, nil
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandMacros replaces every {name} of template with vars[name]
func expandMacros(template string, vars map[string]string) string {
	return macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
		return vars[strings.Trim(macro, "{}")]
	})
}

// keyOf builds the primary key of the record with id
func (s *Service) keyOf(id string, rec Record) (map[string]types.AttributeValue, error) {
	vars := map[string]string{"resource": s.resource, "id": id}
	for k, v := range rec {
		if _, taken := vars[k]; !taken {
			vars[k] = resourcemodels.FormatID(v)
		}
	}

	pk, sk := expandMacros(s.pkTmpl, vars), expandMacros(s.skTmpl, vars)
	if pk == "" || sk == "" {
		return nil, errors.NewValidationError("id", "key templates expanded to an empty key")
	}
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: pk},
		AttrSK: &types.AttributeValueMemberS{Value: sk},
	}, nil
}

func (s *Service) stamp() string {
	return strfmt.DateTime(s.now().UTC()).String()
}

// Fetch retrieves a record by id
func (s *Service) Fetch(ctx context.Context, id string) (Record, error) {
	key, err := s.keyOf(id, nil)
	if err != nil {
		return nil, err
	}

	out, err := s.api.GetItem(ctx, &sdk.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "GetItem %s", id)
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError(s.resource, id)
	}
	return decodeItem(out.Item)
}

// Create stores a new record, assigning an id when it has none
func (s *Service) Create(ctx context.Context, record Record, _ resourcemodels.WriteOptions) (Record, error) {
	rec := record.Clone()
	if rec == nil {
		rec = Record{}
	}
	id := rec.ID()
	if id == "" {
		id = s.newID()
		rec["id"] = id
	}
	ts := s.stamp()
	rec[AttrCreatedAt] = ts
	rec[AttrUpdatedAt] = ts

	if err := s.put(ctx, id, rec, "attribute_not_exists(PK)"); err != nil {
		if isConditionFailed(err) {
			return nil, errors.NewAlreadyExistsError(s.resource, id)
		}
		return nil, err
	}
	s.log.WithField("id", id).Debug("record created")
	return rec, nil
}

// Update replaces the record stored under id
func (s *Service) Update(ctx context.Context, record Record, id string, _ resourcemodels.WriteOptions) (Record, error) {
	rec := record.Clone()
	if rec == nil {
		rec = Record{}
	}
	rec["id"] = id
	rec[AttrUpdatedAt] = s.stamp()

	if err := s.put(ctx, id, rec, "attribute_exists(PK)"); err != nil {
		if isConditionFailed(err) {
			return nil, errors.NewNotFoundError(s.resource, id)
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) put(ctx context.Context, id string, rec Record, condition string) error {
	av, err := attributevalue.MarshalMap(map[string]any(rec))
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal record")
	}
	key, err := s.keyOf(id, rec)
	if err != nil {
		return err
	}
	for k, v := range key {
		av[k] = v
	}
	av[AttrEntityType] = &types.AttributeValueMemberS{Value: s.resource}

	_, err = s.api.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: aws.String(condition),
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "PutItem %s", id)
	}
	return nil
}

// Destroy removes the record stored under id
func (s *Service) Destroy(ctx context.Context, id string) error {
	key, err := s.keyOf(id, nil)
	if err != nil {
		return err
	}

	_, err = s.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return errors.NewNotFoundError(s.resource, id)
		}
		return pkgerrors.Wrapf(err, "DeleteItem %s", id)
	}
	return nil
}

// Patch sets a single field of the record stored under id
func (s *Service) Patch(ctx context.Context, id, field string, value any) (Record, error) {
	if field == "" || field == "id" || field == AttrPK || field == AttrSK {
		return nil, errors.NewValidationError("field", fmt.Sprintf("%q cannot be patched", field))
	}
	key, err := s.keyOf(id, nil)
	if err != nil {
		return nil, err
	}

	updateExpr, names, values, err := buildUpdateExpression(map[string]any{
		field:         value,
		AttrUpdatedAt: s.stamp(),
	})
	if err != nil {
		return nil, err
	}

	out, err := s.api.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       key,
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, errors.NewNotFoundError(s.resource, id)
		}
		return nil, pkgerrors.Wrapf(err, "UpdateItem %s", id)
	}
	return decodeItem(out.Attributes)
}

// buildUpdateExpression transforms field->value pairs into a SET expression
// with #fN name and :vN value placeholders.
func buildUpdateExpression(updates map[string]any) (string, map[string]string, map[string]types.AttributeValue, error) {
	if len(updates) == 0 {
		return "", nil, nil, errors.NewValidationError("updates", "no updates provided")
	}

	fields := make([]string, 0, len(updates))
	for f := range updates {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	clauses := make([]string, 0, len(fields))
	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	for i, f := range fields {
		name, value := fmt.Sprintf("#f%d", i), fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[f])
		if err != nil {
			return "", nil, nil, pkgerrors.Wrapf(err, "marshaling value of %s", f)
		}
		clauses = append(clauses, name+" = "+value)
		names[name] = f
		values[value] = av
	}
	return "SET " + strings.Join(clauses, ", "), names, values, nil
}

// decodeItem unmarshals an item into a record without the key attributes
func decodeItem(item map[string]types.AttributeValue) (Record, error) {
	var rec map[string]any
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to unmarshal item")
	}
	delete(rec, AttrPK)
	delete(rec, AttrSK)
	delete(rec, AttrEntityType)
	return Record(rec), nil
}

func isConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return stderrors.As(err, &cfe)
}
