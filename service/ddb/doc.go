/*
Package ddb provides a DynamoDB implementation of service.Service for
schemaless resource records.

Every resource lives in one partition of a single table:

	PK = "{resource}"        e.g. "cliente"
	SK = "{resource}#{id}"   e.g. "cliente#3f2c..."

Key templates use macros replaced with the resource name and record
fields, and can be changed with WithKeyTemplates. An EntityType attribute
holding the resource name is written on every item.

List and search read the whole partition (following LastEvaluatedKey and
retrying throttled pages with exponential backoff), then filter, sort and
slice it in memory to answer page-numbered queries the same way the HTTP
API does. Ids are generated with uuid and created_at / updated_at are
stamped as RFC 3339 date-times.
*/
package ddb
