/*
Package resources holds the definitions of the panel resources.

A definition names the API endpoint, the registry service, the default sort key
and the blank record of one resource. The builtin set covers the whole panel;
a YAML file with the same layout replaces it:

	resources:
	  - name: cliente
	    service: ClienteService
	    sort_key: razao_social
	    default:
	      razao_social: ""

Definitions turn into store configurations with StoreConfig and into registry
definitions with HTTPServices or DynamoDBServices.
*/
package resources
